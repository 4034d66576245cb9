package shelters

import (
	"encoding/json"
	"net/http"
	"time"

	"pet-adoption-hub/internal/middleware"
	"pet-adoption-hub/internal/platform/apperr"
	"pet-adoption-hub/internal/platform/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/shelters", func(sr chi.Router) {
		sr.Post("/", createShelterHandler(svc))
		sr.Get("/{shelterID}", getShelterHandler(svc))
	})
}

type createShelterRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
	Website string `json:"website" validate:"omitempty,url"`
}

type shelterResponse struct {
	ID             string    `json:"id"`
	OwnerUserID    string    `json:"owner_user_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	City           string    `json:"city,omitempty"`
	Website        string    `json:"website,omitempty"`
	TotalAdoptions int       `json:"total_adoptions"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// createShelterHandler godoc
// @Summary Registrar refugio
// @Description Solo rol `shelter` o `admin`. El usuario autenticado queda como owner.
// @Tags shelters
// @Accept json
// @Produce json
// @Param payload body createShelterRequest true "Datos del refugio"
// @Success 201 {object} shelterResponse
// @Failure 400 {object} apperr.Body
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {object} apperr.Body
// @Router /shelters [post]
func createShelterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.RequireActor(w, r)
		if !ok {
			return
		}

		var req createShelterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validation.Struct(req); err != nil {
			writeError(w, err)
			return
		}

		sh, err := svc.Create(r.Context(), actor, CreateInput{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			City:    req.City,
			Website: req.Website,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toShelterResponse(sh))
	}
}

// getShelterHandler godoc
// @Summary Ver refugio
// @Tags shelters
// @Produce json
// @Param shelterID path string true "ID del refugio"
// @Success 200 {object} shelterResponse
// @Failure 404 {object} apperr.Body
// @Router /shelters/{shelterID} [get]
func getShelterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sh, err := svc.GetByID(r.Context(), chi.URLParam(r, "shelterID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toShelterResponse(sh))
	}
}

func toShelterResponse(sh Shelter) shelterResponse {
	return shelterResponse{
		ID:             sh.ID,
		OwnerUserID:    sh.OwnerUserID,
		Name:           sh.Name,
		Email:          sh.Email,
		Phone:          sh.Phone,
		City:           sh.City,
		Website:        sh.Website,
		TotalAdoptions: sh.Stats.TotalAdoptions,
		CreatedAt:      sh.CreatedAt,
		UpdatedAt:      sh.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.HTTPStatus(err), apperr.ToBody(err))
}
