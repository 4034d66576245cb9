package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption-hub/internal/platform/apperr"
	"pet-adoption-hub/internal/platform/money"
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
	ShelterID   string
	Name        string
	Species     Species
	Breed       string
	Sex         Sex
	BirthDate   *time.Time
	Description string
	AdoptionFee money.Cents
}

// Create publica una mascota (solo shelter o admin). Arranca available.
func (s *Service) Create(ctx context.Context, actor auth.Actor, in CreateInput) (Pet, error) {
	if actor.Role != auth.RoleShelter && actor.Role != auth.RoleAdmin {
		return Pet{}, apperr.Forbidden("only shelters can list pets")
	}
	if strings.TrimSpace(in.ShelterID) == "" {
		return Pet{}, apperr.Validation("shelter_id", "required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, apperr.Validation("name", "required")
	}
	if in.AdoptionFee < 0 {
		return Pet{}, apperr.Validation("adoption_fee", "must be >= 0")
	}

	sex := in.Sex
	if sex == "" {
		sex = SexUnknown
	}
	species := in.Species
	if species == "" {
		species = SpeciesOther
	}

	now := s.now()
	p := Pet{
		ID:             uuid.NewString(),
		ShelterID:      strings.TrimSpace(in.ShelterID),
		Name:           strings.TrimSpace(in.Name),
		Species:        species,
		Breed:          strings.TrimSpace(in.Breed),
		Sex:            sex,
		BirthDate:      in.BirthDate,
		Description:    strings.TrimSpace(in.Description),
		AdoptionFee:    in.AdoptionFee,
		AdoptionStatus: StatusAvailable,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, apperr.Validation("pet_id", "required")
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, translate(err, id)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Pet, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// Hold pasa available -> pending (al recibir una solicitud). Una mascota ya
// retenida por otra solicitud devuelve InvalidState.
func (s *Service) Hold(ctx context.Context, petID string) (Pet, error) {
	return s.mutate(ctx, petID, func(p *Pet, now time.Time) (bool, error) {
		if p.AdoptionStatus != StatusAvailable {
			return false, apperr.InvalidState(string(p.AdoptionStatus), "pet %s is not available", p.ID)
		}
		p.AdoptionStatus = StatusPending
		return true, nil
	})
}

// Release pasa pending -> available. En cualquier otro estado no hace nada.
func (s *Service) Release(ctx context.Context, petID string) (Pet, error) {
	return s.mutate(ctx, petID, func(p *Pet, now time.Time) (bool, error) {
		if p.AdoptionStatus != StatusPending {
			return false, nil
		}
		p.AdoptionStatus = StatusAvailable
		return true, nil
	})
}

// MarkAdopted marca la mascota como adoptada y agrega la entrada al historial.
// Idempotente para la misma solicitud (permite reintentar el side effect).
func (s *Service) MarkAdopted(ctx context.Context, petID, applicationID, adopterID string, at time.Time) (Pet, error) {
	return s.mutate(ctx, petID, func(p *Pet, now time.Time) (bool, error) {
		if p.AdoptionStatus == StatusAdopted {
			if p.AdoptedThrough(applicationID) {
				return false, nil
			}
			return false, apperr.Conflict("pet_id", "pet %s already adopted through another application", p.ID)
		}
		if p.AdoptionStatus != StatusPending && p.AdoptionStatus != StatusAvailable {
			return false, apperr.InvalidState(string(p.AdoptionStatus), "pet %s cannot be adopted", p.ID)
		}

		adoptedAt := at
		p.AdoptionStatus = StatusAdopted
		p.AdoptionDate = &adoptedAt
		p.AdoptionHistory = append(p.AdoptionHistory, AdoptionRecord{
			ApplicationID: applicationID,
			AdopterID:     adopterID,
			AdoptedAt:     adoptedAt,
		})
		return true, nil
	})
}

// MarkReturned revierte una adopción: adopted -> available, con fecha de devolución.
func (s *Service) MarkReturned(ctx context.Context, petID, applicationID string, at time.Time) (Pet, error) {
	return s.mutate(ctx, petID, func(p *Pet, now time.Time) (bool, error) {
		last := p.lastRecord()
		if last == nil || last.ApplicationID != applicationID {
			return false, apperr.InvalidState(string(p.AdoptionStatus), "pet %s has no adoption for application %s", p.ID, applicationID)
		}
		if last.ReturnedAt != nil {
			return false, nil
		}
		returnedAt := at
		last.ReturnedAt = &returnedAt
		p.AdoptionStatus = StatusAvailable
		p.AdoptionDate = nil
		return true, nil
	})
}

// mutate hace read-modify-write con control de versión.
// fn devuelve changed=false para no escribir (no-op idempotente).
func (s *Service) mutate(ctx context.Context, petID string, fn func(p *Pet, now time.Time) (bool, error)) (Pet, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}

	now := s.now()
	changed, err := fn(&p, now)
	if err != nil {
		return Pet{}, err
	}
	if !changed {
		return p, nil
	}

	p.UpdatedAt = now
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, translate(err, petID)
	}
	p.Version++
	return p, nil
}

// AdoptedThrough indica si la adopción vigente corresponde a esa solicitud.
func (p Pet) AdoptedThrough(applicationID string) bool {
	if p.AdoptionStatus != StatusAdopted {
		return false
	}
	last := p.lastRecord()
	return last != nil && last.ApplicationID == applicationID && last.ReturnedAt == nil
}

func (p *Pet) lastRecord() *AdoptionRecord {
	if len(p.AdoptionHistory) == 0 {
		return nil
	}
	return &p.AdoptionHistory[len(p.AdoptionHistory)-1]
}

func translate(err error, id string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperr.NotFound("pet_id", "pet %s not found", id)
	case errors.Is(err, storage.ErrVersionConflict):
		return apperr.Conflict("pet_id", "pet %s was modified concurrently", id).Wrap(storage.ErrVersionConflict)
	default:
		return err
	}
}
