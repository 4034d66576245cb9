package adoptions

import (
	"encoding/json"
	"net/http"
	"time"

	"pet-adoption-hub/internal/middleware"
	"pet-adoption-hub/internal/platform/apperr"
	"pet-adoption-hub/internal/platform/money"
	"pet-adoption-hub/internal/platform/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/me/adoptions", listMyAdoptionsHandler(svc))

	r.Route("/adoptions", func(ar chi.Router) {
		ar.Post("/", submitHandler(svc))
		ar.Get("/", listByPetHandler(svc))

		ar.Route("/{applicationID}", func(one chi.Router) {
			one.Get("/", getHandler(svc))
			one.Patch("/", updateInfoHandler(svc))
			one.Post("/status", transitionHandler(svc))
			one.Post("/visits", scheduleVisitHandler(svc))
			one.Post("/visits/{visitID}/complete", completeVisitHandler(svc))
			one.Post("/fees", addFeeHandler(svc))
			one.Post("/payments", recordPaymentHandler(svc))
			one.Post("/reconcile", reconcileHandler(svc))
		})
	})
}

// submitRequest es el formulario de solicitud de adopción.
type submitRequest struct {
	PetID        string       `json:"pet_id" validate:"required"`
	PersonalInfo PersonalInfo `json:"personal_info"`
	HousingInfo  HousingInfo  `json:"housing_info"`
	References   []Reference  `json:"references" validate:"max=5"`
}

type updateInfoRequest struct {
	PersonalInfo *PersonalInfo `json:"personal_info" validate:"omitempty"`
	HousingInfo  *HousingInfo  `json:"housing_info" validate:"omitempty"`
	References   []Reference   `json:"references" validate:"omitempty,max=5"`
}

type transitionRequest struct {
	Status Status `json:"status" validate:"required"`
	Notes  string `json:"notes" validate:"max=1000"`
}

type scheduleVisitRequest struct {
	Type          VisitType `json:"type" validate:"required,oneof=meet-and-greet home-visit follow-up"`
	ScheduledDate time.Time `json:"scheduled_date" validate:"required"`
	Notes         string    `json:"notes" validate:"max=1000"`
}

type completeVisitRequest struct {
	Outcome VisitOutcome `json:"outcome" validate:"required,oneof=approved rejected needs-follow-up"`
	Notes   string       `json:"notes" validate:"max=1000"`
}

type addFeeRequest struct {
	Description string      `json:"description" validate:"required,max=200"`
	Amount      money.Cents `json:"amount" validate:"gt=0"`
}

type paymentRequest struct {
	Amount    money.Cents `json:"amount" validate:"gt=0"`
	Method    string      `json:"method" validate:"required,oneof=card cash transfer other"`
	Reference string      `json:"reference" validate:"max=120"`
}

// applicationResponse es la vista de una solicitud. fees incluye total y payment_status.
type applicationResponse struct {
	ID           string          `json:"id"`
	PetID        string          `json:"pet_id"`
	ApplicantID  string          `json:"applicant_id"`
	ShelterID    string          `json:"shelter_id"`
	Status       Status          `json:"status"`
	HeldFrom     Status          `json:"held_from,omitempty"`
	NextStatuses []Status        `json:"next_statuses"`
	PersonalInfo PersonalInfo    `json:"personal_info"`
	HousingInfo  HousingInfo     `json:"housing_info"`
	References   []Reference     `json:"references"`
	Visits       []Visit         `json:"visits"`
	Timeline     []TimelineEntry `json:"timeline"`
	Fees         Fees            `json:"fees"`
	SubmittedAt  time.Time       `json:"submitted_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// submitHandler godoc
// @Summary Enviar solicitud de adopción
// @Description Crea una solicitud en `submitted` para el usuario autenticado. La mascota debe estar `available`.
// @Tags adoptions
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: user, shelter o admin"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body submitRequest true "Formulario"
// @Success 201 {object} applicationResponse
// @Failure 400 {object} apperr.Body
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {object} apperr.Body
// @Failure 409 {object} apperr.Body
// @Router /adoptions [post]
func submitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.RequireActor(w, r)
		if !ok {
			return
		}
		var req submitRequest
		if !decode(w, r, &req) {
			return
		}

		app, err := svc.Submit(r.Context(), actor, SubmitInput{
			PetID:        req.PetID,
			PersonalInfo: req.PersonalInfo,
			HousingInfo:  req.HousingInfo,
			References:   req.References,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toResponse(app))
	}
}

// listMyAdoptionsHandler godoc
// @Summary Mis solicitudes
// @Tags adoptions
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} applicationResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/adoptions [get]
func listMyAdoptionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.RequireActor(w, r)
		if !ok {
			return
		}
		items, err := svc.ListMine(r.Context(), actor)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

// listByPetHandler godoc
// @Summary Solicitudes por mascota
// @Description Solo rol `shelter` o `admin`.
// @Tags adoptions
// @Produce json
// @Param pet_id query string true "ID de la mascota"
// @Success 200 {array} applicationResponse
// @Failure 400 {object} apperr.Body
// @Failure 403 {object} apperr.Body
// @Router /adoptions [get]
func listByPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.RequireActor(w, r)
		if !ok {
			return
		}
		items, err := svc.ListByPet(r.Context(), actor, r.URL.Query().Get("pet_id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

// getHandler godoc
// @Summary Ver solicitud
// @Description Visible para el solicitante, refugios y admin.
// @Tags adoptions
// @Produce json
// @Param applicationID path string true "ID de la solicitud"
// @Success 200 {object} applicationResponse
// @Failure 403 {object} apperr.Body
// @Failure 404 {object} apperr.Body
// @Router /adoptions/{applicationID} [get]
func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.RequireActor(w, r)
		if !ok {
			return
		}
		app, err := svc.Get(r.Context(), chi.URLParam(r, "applicationID"), actor)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(app))
	}
}

// updateInfoHandler godoc
// @Summary Editar datos del solicitante
// @Description Solo mientras la solicitud está en `submitted`. Los campos omitidos no cambian.
// @Tags adoptions
// @Accept json
// @Produce json
// @Param applicationID path string true "ID de la solicitud"
// @Param payload body updateInfoRequest true "Campos a reemplazar"
// @Success 200 {object} applicationResponse
// @Failure 403 {object} apperr.Body
// @Failure 409 {object} apperr.Body
// @Router /adoptions/{applicationID} [patch]
func updateInfoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.RequireActor(w, r)
		if !ok {
			return
		}
		var req updateInfoRequest
		if !decode(w, r, &req) {
			return
		}
		app, err := svc.UpdateApplicantInfo(r.Context(), chi.URLParam(r, "applicationID"), actor, ApplicantInfoInput{
			PersonalInfo: req.PersonalInfo,
			HousingInfo:  req.HousingInfo,
			References:   req.References,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(app))
	}
}

// transitionHandler godoc
// @Summary Cambiar estado
// @Description Aplica una transición del pipeline. `withdrawn` la puede pedir el solicitante mientras está en `submitted`; el resto requiere `shelter` o `admin`.
// @Description Si el cambio se guardó pero fallaron los efectos sobre mascota/refugio responde 502 `partial_failure`; reintentar con /reconcile.
// @Tags adoptions
// @Accept json
// @Produce json
// @Param applicationID path string true "ID de la solicitud"
// @Param payload body transitionRequest true "Estado destino"
// @Success 200 {object} applicationResponse
// @Failure 403 {object} apperr.Body
// @Failure 409 {object} apperr.Body
// @Failure 502 {object} apperr.Body
// @Router /adoptions/{applicationID}/status [post]
func transitionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.RequireActor(w, r)
		if !ok {
			return
		}
		var req transitionRequest
		if !decode(w, r, &req) {
			return
		}
		app, err := svc.TransitionStatus(r.Context(), chi.URLParam(r, "applicationID"), actor, req.Status, req.Notes)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(app))
	}
}

// scheduleVisitHandler godoc
// @Summary Agendar visita
// @Tags adoptions
// @Accept json
// @Produce json
// @Param applicationID path string true "ID de la solicitud"
// @Param payload body scheduleVisitRequest true "Visita"
// @Success 201 {object} applicationResponse
// @Failure 400 {object} apperr.Body
// @Failure 409 {object} apperr.Body
// @Router /adoptions/{applicationID}/visits [post]
func scheduleVisitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.RequireActor(w, r)
		if !ok {
			return
		}
		var req scheduleVisitRequest
		if !decode(w, r, &req) {
			return
		}
		app, err := svc.ScheduleVisit(r.Context(), chi.URLParam(r, "applicationID"), actor, ScheduleVisitInput{
			Type:          req.Type,
			ScheduledDate: req.ScheduledDate,
			Notes:         req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toResponse(app))
	}
}

// completeVisitHandler godoc
// @Summary Completar visita
// @Tags adoptions
// @Accept json
// @Produce json
// @Param applicationID path string true "ID de la solicitud"
// @Param visitID path string true "ID de la visita"
// @Param payload body completeVisitRequest true "Resultado"
// @Success 200 {object} applicationResponse
// @Failure 404 {object} apperr.Body
// @Failure 409 {object} apperr.Body
// @Router /adoptions/{applicationID}/visits/{visitID}/complete [post]
func completeVisitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.RequireActor(w, r)
		if !ok {
			return
		}
		var req completeVisitRequest
		if !decode(w, r, &req) {
			return
		}
		app, err := svc.CompleteVisit(r.Context(), chi.URLParam(r, "applicationID"), actor,
			chi.URLParam(r, "visitID"), req.Outcome, req.Notes)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(app))
	}
}

// addFeeHandler godoc
// @Summary Agregar cargo
// @Tags adoptions
// @Accept json
// @Produce json
// @Param applicationID path string true "ID de la solicitud"
// @Param payload body addFeeRequest true "Cargo"
// @Success 200 {object} applicationResponse
// @Router /adoptions/{applicationID}/fees [post]
func addFeeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.RequireActor(w, r)
		if !ok {
			return
		}
		var req addFeeRequest
		if !decode(w, r, &req) {
			return
		}
		app, err := svc.AddFee(r.Context(), chi.URLParam(r, "applicationID"), actor, req.Description, req.Amount)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(app))
	}
}

// recordPaymentHandler godoc
// @Summary Registrar pago
// @Description Con el total cubierto, una solicitud en `adoption-approved` pasa a `adoption-completed`.
// @Tags adoptions
// @Accept json
// @Produce json
// @Param applicationID path string true "ID de la solicitud"
// @Param payload body paymentRequest true "Pago"
// @Success 200 {object} applicationResponse
// @Failure 400 {object} apperr.Body
// @Failure 502 {object} apperr.Body
// @Router /adoptions/{applicationID}/payments [post]
func recordPaymentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.RequireActor(w, r)
		if !ok {
			return
		}
		var req paymentRequest
		if !decode(w, r, &req) {
			return
		}
		app, err := svc.RecordPayment(r.Context(), chi.URLParam(r, "applicationID"), actor, PaymentInput{
			Amount:    req.Amount,
			Method:    req.Method,
			Reference: req.Reference,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(app))
	}
}

// reconcileHandler godoc
// @Summary Reintentar efectos de adopción completada
// @Tags adoptions
// @Produce json
// @Param applicationID path string true "ID de la solicitud"
// @Success 200 {object} applicationResponse
// @Failure 409 {object} apperr.Body
// @Failure 502 {object} apperr.Body
// @Router /adoptions/{applicationID}/reconcile [post]
func reconcileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.RequireActor(w, r)
		if !ok {
			return
		}
		app, err := svc.ReconcileCompletion(r.Context(), chi.URLParam(r, "applicationID"), actor)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(app))
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	if err := validation.Struct(dst); err != nil {
		writeError(w, err)
		return false
	}
	return true
}

func toResponses(items []Application) []applicationResponse {
	out := make([]applicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toResponse(a))
	}
	return out
}

func toResponse(a Application) applicationResponse {
	refs := a.References
	if refs == nil {
		refs = []Reference{}
	}
	visits := a.Visits
	if visits == nil {
		visits = []Visit{}
	}
	return applicationResponse{
		ID:           a.ID,
		PetID:        a.PetID,
		ApplicantID:  a.ApplicantID,
		ShelterID:    a.ShelterID,
		Status:       a.Status,
		HeldFrom:     a.HeldFrom,
		NextStatuses: NextStatuses(a.Status, a.HeldFrom),
		PersonalInfo: a.PersonalInfo,
		HousingInfo:  a.HousingInfo,
		References:   refs,
		Visits:       visits,
		Timeline:     a.Timeline,
		Fees:         a.Fees,
		SubmittedAt:  a.SubmittedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.HTTPStatus(err), apperr.ToBody(err))
}
