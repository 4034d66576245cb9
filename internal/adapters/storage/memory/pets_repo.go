package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-adoption-hub/internal/domain/pets"
	"pet-adoption-hub/internal/ports/storage"
)

type petRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID: make(map[string]pets.Pet),
	}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return storage.ErrAlreadyExists
	}
	r.byID[p.ID] = clonePet(p)
	return nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[p.ID]
	if !exists {
		return storage.ErrNotFound
	}
	if cur.Version != p.Version {
		return storage.ErrVersionConflict
	}
	p = clonePet(p)
	p.Version++
	r.byID[p.ID] = p
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, storage.ErrNotFound
	}
	return clonePet(p), nil
}

func (r *petRepo) List(ctx context.Context, f pets.ListFilter) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if f.ShelterID != "" && p.ShelterID != f.ShelterID {
			continue
		}
		if f.Species != "" && p.Species != f.Species {
			continue
		}
		if f.Status != "" && p.AdoptionStatus != f.Status {
			continue
		}
		out = append(out, clonePet(p))
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func clonePet(p pets.Pet) pets.Pet {
	history := make([]pets.AdoptionRecord, len(p.AdoptionHistory))
	for i, h := range p.AdoptionHistory {
		if h.ReturnedAt != nil {
			t := *h.ReturnedAt
			h.ReturnedAt = &t
		}
		history[i] = h
	}
	p.AdoptionHistory = history
	if p.AdoptionDate != nil {
		t := *p.AdoptionDate
		p.AdoptionDate = &t
	}
	return p
}
