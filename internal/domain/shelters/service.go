package shelters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption-hub/internal/platform/apperr"
	"pet-adoption-hub/internal/ports/auth"
	"pet-adoption-hub/internal/ports/storage"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name    string
	Email   string
	Phone   string
	City    string
	Website string
}

// Create registra un refugio. El actor (shelter o admin) queda como owner.
func (s *Service) Create(ctx context.Context, actor auth.Actor, in CreateInput) (Shelter, error) {
	if actor.Role != auth.RoleShelter && actor.Role != auth.RoleAdmin {
		return Shelter{}, apperr.Forbidden("only shelter accounts can register shelters")
	}
	if strings.TrimSpace(in.Name) == "" {
		return Shelter{}, apperr.Validation("name", "required")
	}

	now := s.now()
	sh := Shelter{
		ID:          uuid.NewString(),
		OwnerUserID: actor.ID,
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		City:        strings.TrimSpace(in.City),
		Website:     strings.TrimSpace(in.Website),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, sh); err != nil {
		return Shelter{}, err
	}
	return sh, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Shelter, error) {
	id = strings.TrimSpace(id)
	sh, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Shelter{}, apperr.NotFound("shelter_id", "shelter %s not found", id)
		}
		return Shelter{}, err
	}
	return sh, nil
}

// OwnerOf devuelve el usuario dueño del refugio. Un refugio inexistente no
// tiene dueño ("").
func (s *Service) OwnerOf(ctx context.Context, shelterID string) (string, error) {
	shelterID = strings.TrimSpace(shelterID)
	if shelterID == "" {
		return "", nil
	}
	sh, err := s.repo.GetByID(ctx, shelterID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return sh.OwnerUserID, nil
}

// RecordAdoption suma una adopción completada. Idempotente por solicitud.
// Un refugio inexistente no es error (las mascotas pueden venir de refugios dados de baja).
func (s *Service) RecordAdoption(ctx context.Context, shelterID, applicationID string) error {
	sh, err := s.repo.GetByID(ctx, strings.TrimSpace(shelterID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	if sh.hasCounted(applicationID) {
		return nil
	}

	sh.Stats.TotalAdoptions++
	sh.Stats.CountedApplications = append(sh.Stats.CountedApplications, applicationID)
	sh.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, sh); err != nil {
		if errors.Is(err, storage.ErrVersionConflict) {
			return apperr.Conflict("shelter_id", "shelter %s was modified concurrently", shelterID).Wrap(err)
		}
		return err
	}
	return nil
}
