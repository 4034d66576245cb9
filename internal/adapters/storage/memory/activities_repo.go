package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-adoption-hub/internal/domain/activities"
	"pet-adoption-hub/internal/ports/storage"
)

type activityRepo struct {
	mu   sync.RWMutex
	byID map[string]activities.Activity
}

func NewActivityRepo() activities.Repository {
	return &activityRepo{byID: make(map[string]activities.Activity)}
}

func (r *activityRepo) Create(ctx context.Context, a activities.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("activity id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return storage.ErrAlreadyExists
	}
	r.byID[a.ID] = a.Clone()
	return nil
}

func (r *activityRepo) Update(ctx context.Context, a activities.Activity) error {
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

func (r *activityRepo) GetByID(ctx context.Context, id string) (activities.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return activities.Activity{}, storage.ErrNotFound
	}
	return a.Clone(), nil
}

func (r *activityRepo) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]activities.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]activities.Activity, 0)
	for _, a := range r.byID {
		if a.StartTime.After(from) {
			out = append(out, a.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
