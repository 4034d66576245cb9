package activities

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"pet-adoption-hub/internal/middleware"
	"pet-adoption-hub/internal/platform/apperr"
	"pet-adoption-hub/internal/platform/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/activities", func(ar chi.Router) {
		ar.Post("/", createActivityHandler(svc))
		ar.Get("/", listUpcomingHandler(svc))
		ar.Get("/{activityID}", getActivityHandler(svc))
		ar.Post("/{activityID}/register", registerHandler(svc))
		ar.Delete("/{activityID}/register", unregisterHandler(svc))
	})
}

type createActivityRequest struct {
	ShelterID   string    `json:"shelter_id"`
	Title       string    `json:"title" validate:"required,max=120"`
	Description string    `json:"description" validate:"max=2000"`
	Kind        Kind      `json:"kind" validate:"omitempty,oneof=adoption-event volunteering training fundraiser other"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time"`
	MaxCapacity int       `json:"max_capacity" validate:"gte=1"`
}

type registerRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

// activityResponse incluye la capacidad y la lista de participantes.
type activityResponse struct {
	ID           string        `json:"id"`
	OrganizerID  string        `json:"organizer_id"`
	ShelterID    string        `json:"shelter_id,omitempty"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Kind         Kind          `json:"kind"`
	Location     string        `json:"location"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	Capacity     Capacity      `json:"capacity"`
	Participants []Participant `json:"participants"`
}

// createActivityHandler godoc
// @Summary Crear actividad
// @Description Solo rol `shelter` o `admin`. `max_capacity` >= 1 y `start_time` futura.
// @Tags activities
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: user, shelter o admin"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createActivityRequest true "Actividad"
// @Success 201 {object} activityResponse
// @Failure 400 {object} apperr.Body
// @Failure 403 {object} apperr.Body
// @Router /activities [post]
func createActivityHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.RequireActor(w, r)
		if !ok {
			return
		}
		var req createActivityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validation.Struct(req); err != nil {
			writeError(w, err)
			return
		}

		a, err := svc.Create(r.Context(), actor, CreateInput{
			ShelterID:   req.ShelterID,
			Title:       req.Title,
			Description: req.Description,
			Kind:        req.Kind,
			Location:    req.Location,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			MaxCapacity: req.MaxCapacity,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toActivityResponse(a))
	}
}

// listUpcomingHandler godoc
// @Summary Próximas actividades
// @Tags activities
// @Produce json
// @Param limit query int false "Máximo (1-200). Por defecto 50"
// @Success 200 {array} activityResponse
// @Router /activities [get]
func listUpcomingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}
		items, err := svc.ListUpcoming(r.Context(), limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]activityResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toActivityResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getActivityHandler godoc
// @Summary Ver actividad
// @Tags activities
// @Produce json
// @Param activityID path string true "ID de la actividad"
// @Success 200 {object} activityResponse
// @Failure 404 {object} apperr.Body
// @Router /activities/{activityID} [get]
func getActivityHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Get(r.Context(), chi.URLParam(r, "activityID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toActivityResponse(a))
	}
}

// registerHandler godoc
// @Summary Inscribirse
// @Description Sin cupo, la inscripción queda `waitlisted`.
// @Tags activities
// @Accept json
// @Produce json
// @Param activityID path string true "ID de la actividad"
// @Param payload body registerRequest false "Notas"
// @Success 200 {object} activityResponse
// @Failure 404 {object} apperr.Body
// @Failure 409 {object} apperr.Body
// @Router /activities/{activityID}/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.RequireActor(w, r)
		if !ok {
			return
		}
		var req registerRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
			if err := validation.Struct(req); err != nil {
				writeError(w, err)
				return
			}
		}

		a, err := svc.Register(r.Context(), chi.URLParam(r, "activityID"), actor, req.Notes)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toActivityResponse(a))
	}
}

// unregisterHandler godoc
// @Summary Cancelar inscripción
// @Description Si se libera un lugar, el primer inscripto en lista de espera pasa a `registered`.
// @Tags activities
// @Produce json
// @Param activityID path string true "ID de la actividad"
// @Success 200 {object} activityResponse
// @Failure 404 {object} apperr.Body
// @Failure 409 {object} apperr.Body
// @Router /activities/{activityID}/register [delete]
func unregisterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.RequireActor(w, r)
		if !ok {
			return
		}
		a, err := svc.Unregister(r.Context(), chi.URLParam(r, "activityID"), actor)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toActivityResponse(a))
	}
}

func toActivityResponse(a Activity) activityResponse {
	participants := a.Participants
	if participants == nil {
		participants = []Participant{}
	}
	return activityResponse{
		ID:           a.ID,
		OrganizerID:  a.OrganizerID,
		ShelterID:    a.ShelterID,
		Title:        a.Title,
		Description:  a.Description,
		Kind:         a.Kind,
		Location:     a.Location,
		StartTime:    a.StartTime,
		EndTime:      a.EndTime,
		Capacity:     a.Capacity,
		Participants: participants,
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
