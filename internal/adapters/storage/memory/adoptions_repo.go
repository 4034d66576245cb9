package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-adoption-hub/internal/domain/adoptions"
	"pet-adoption-hub/internal/ports/storage"
)

type adoptionRepo struct {
	mu   sync.RWMutex
	byID map[string]adoptions.Application
}

func NewAdoptionRepo() adoptions.Repository {
	return &adoptionRepo{byID: make(map[string]adoptions.Application)}
}

// Create rechaza una segunda solicitud activa del mismo usuario para la misma
// mascota; el chequeo y la escritura van bajo el mismo lock.
func (r *adoptionRepo) Create(ctx context.Context, a adoptions.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("application id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return storage.ErrAlreadyExists
	}
	for _, cur := range r.byID {
		if cur.PetID == a.PetID && cur.ApplicantID == a.ApplicantID && adoptions.IsActive(cur.Status) {
			return storage.ErrAlreadyExists
		}
	}
	r.byID[a.ID] = a.Clone()
	return nil
}

func (r *adoptionRepo) Update(ctx context.Context, a adoptions.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[a.ID]
	if !exists {
		return storage.ErrNotFound
	}
	if cur.Version != a.Version {
		return storage.ErrVersionConflict
	}
	a = a.Clone()
	a.Version++
	r.byID[a.ID] = a
	return nil
}

func (r *adoptionRepo) GetByID(ctx context.Context, id string) (adoptions.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return adoptions.Application{}, storage.ErrNotFound
	}
	return a.Clone(), nil
}

func (r *adoptionRepo) ListByPet(ctx context.Context, petID string) ([]adoptions.Application, error) {
	return r.list(func(a adoptions.Application) bool { return a.PetID == petID }), nil
}

func (r *adoptionRepo) ListByApplicant(ctx context.Context, applicantID string) ([]adoptions.Application, error) {
	return r.list(func(a adoptions.Application) bool { return a.ApplicantID == applicantID }), nil
}

func (r *adoptionRepo) list(match func(adoptions.Application) bool) []adoptions.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]adoptions.Application, 0)
	for _, a := range r.byID {
		if match(a) {
			out = append(out, a.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}
