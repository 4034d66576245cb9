package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-adoption-hub/internal/domain/shelters"
	"pet-adoption-hub/internal/ports/storage"
)

type shelterRepo struct {
	mu   sync.RWMutex
	byID map[string]shelters.Shelter
}

func NewShelterRepo() shelters.Repository {
	return &shelterRepo{byID: make(map[string]shelters.Shelter)}
}

func (r *shelterRepo) Create(ctx context.Context, s shelters.Shelter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("shelter id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return storage.ErrAlreadyExists
	}
	r.byID[s.ID] = cloneShelter(s)
	return nil
}

func (r *shelterRepo) Update(ctx context.Context, s shelters.Shelter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[s.ID]
	if !exists {
		return storage.ErrNotFound
	}
	if cur.Version != s.Version {
		return storage.ErrVersionConflict
	}
	s = cloneShelter(s)
	s.Version++
	r.byID[s.ID] = s
	return nil
}

func (r *shelterRepo) GetByID(ctx context.Context, id string) (shelters.Shelter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return shelters.Shelter{}, storage.ErrNotFound
	}
	return cloneShelter(s), nil
}

func cloneShelter(s shelters.Shelter) shelters.Shelter {
	s.Stats.CountedApplications = append([]string(nil), s.Stats.CountedApplications...)
	return s
}
