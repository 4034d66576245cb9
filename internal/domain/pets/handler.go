package pets

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-adoption-hub/internal/middleware"
	"pet-adoption-hub/internal/platform/apperr"
	"pet-adoption-hub/internal/platform/money"
	"pet-adoption-hub/internal/platform/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
	})
}

// createPetRequest es el cuerpo para publicar una mascota en adopción.
type createPetRequest struct {
	ShelterID   string      `json:"shelter_id" validate:"required"`
	Name        string      `json:"name" validate:"required,max=80"`
	Species     Species     `json:"species" validate:"omitempty,oneof=dog cat rabbit bird other"`
	Breed       string      `json:"breed"`
	Sex         Sex         `json:"sex" validate:"omitempty,oneof=male female unknown"`
	BirthDate   string      `json:"birth_date"` // YYYY-MM-DD opcional
	Description string      `json:"description"`
	AdoptionFee money.Cents `json:"adoption_fee" validate:"gte=0"`
}

type adoptionRecordResponse struct {
	ApplicationID string     `json:"application_id"`
	AdopterID     string     `json:"adopter_id"`
	AdoptedAt     time.Time  `json:"adopted_at"`
	ReturnedAt    *time.Time `json:"returned_at,omitempty"`
}

// petResponse representa una mascota publicada.
type petResponse struct {
	ID              string                   `json:"id"`
	ShelterID       string                   `json:"shelter_id"`
	Name            string                   `json:"name"`
	Species         Species                  `json:"species"`
	Breed           string                   `json:"breed"`
	Sex             Sex                      `json:"sex"`
	BirthDate       *time.Time               `json:"birth_date,omitempty"`
	Description     string                   `json:"description"`
	AdoptionFee     money.Cents              `json:"adoption_fee"`
	AdoptionStatus  AdoptionStatus           `json:"adoption_status"`
	AdoptionDate    *time.Time               `json:"adoption_date,omitempty"`
	AdoptionHistory []adoptionRecordResponse `json:"adoption_history"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// createPetHandler godoc
// @Summary Publicar mascota
// @Description Publica una mascota en adopción. Solo rol `shelter` o `admin`. La mascota arranca `available`.
// @Tags pets
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-Role header string false "Solo en modo dev: user, shelter o admin"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} petResponse
// @Failure 400 {object} apperr.Body
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {object} apperr.Body
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.RequireActor(w, r)
		if !ok {
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validation.Struct(req); err != nil {
			writeError(w, err)
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			bd = &t
		}

		p, err := svc.Create(r.Context(), actor, CreateInput{
			ShelterID:   req.ShelterID,
			Name:        req.Name,
			Species:     req.Species,
			Breed:       req.Breed,
			Sex:         req.Sex,
			BirthDate:   bd,
			Description: req.Description,
			AdoptionFee: req.AdoptionFee,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Description Lista mascotas publicadas. Por defecto solo las `available`. Público.
// @Tags pets
// @Produce json
// @Param species query string false "Filtrar por especie"
// @Param shelter_id query string false "Filtrar por refugio"
// @Param status query string false "Estado de adopción (default available; `all` para no filtrar)"
// @Param limit query int false "Máximo (1-200). Por defecto 50"
// @Success 200 {array} petResponse
// @Failure 500 {string} string "internal error"
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := ListFilter{
			ShelterID: strings.TrimSpace(q.Get("shelter_id")),
			Species:   Species(strings.TrimSpace(q.Get("species"))),
			Status:    StatusAvailable,
		}
		switch st := strings.TrimSpace(q.Get("status")); st {
		case "":
		case "all":
			filter.Status = ""
		default:
			filter.Status = AdoptionStatus(st)
		}
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
				filter.Limit = n
			}
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Ver mascota
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 404 {object} apperr.Body
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func toPetResponse(p Pet) petResponse {
	history := make([]adoptionRecordResponse, 0, len(p.AdoptionHistory))
	for _, h := range p.AdoptionHistory {
		history = append(history, adoptionRecordResponse{
			ApplicationID: h.ApplicationID,
			AdopterID:     h.AdopterID,
			AdoptedAt:     h.AdoptedAt,
			ReturnedAt:    h.ReturnedAt,
		})
	}
	return petResponse{
		ID:              p.ID,
		ShelterID:       p.ShelterID,
		Name:            p.Name,
		Species:         p.Species,
		Breed:           p.Breed,
		Sex:             p.Sex,
		BirthDate:       p.BirthDate,
		Description:     p.Description,
		AdoptionFee:     p.AdoptionFee,
		AdoptionStatus:  p.AdoptionStatus,
		AdoptionDate:    p.AdoptionDate,
		AdoptionHistory: history,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
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
