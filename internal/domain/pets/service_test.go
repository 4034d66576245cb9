package pets

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-adoption-hub/internal/platform/apperr"
	"pet-adoption-hub/internal/platform/money"
	"pet-adoption-hub/internal/ports/auth"
	"pet-adoption-hub/internal/ports/storage"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID      map[string]Pet
	failWrite error
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; ok {
		return storage.ErrAlreadyExists
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	if r.failWrite != nil {
		return r.failWrite
	}
	cur, ok := r.byID[p.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if cur.Version != p.Version {
		return storage.ErrVersionConflict
	}
	p.AdoptionHistory = append([]AdoptionRecord(nil), p.AdoptionHistory...)
	p.Version++
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, storage.ErrNotFound
	}
	p.AdoptionHistory = append([]AdoptionRecord(nil), p.AdoptionHistory...)
	return p, nil
}

func (r *testRepo) List(ctx context.Context, filter ListFilter) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if filter.Status != "" && p.AdoptionStatus != filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

var shelterActor = auth.Actor{ID: "shelter-user", Role: auth.RoleShelter}

func newPet(t *testing.T, svc *Service) Pet {
	t.Helper()
	p, err := svc.Create(context.Background(), shelterActor, CreateInput{
		ShelterID:   "shelter-1",
		Name:        "Milo",
		Species:     SpeciesDog,
		AdoptionFee: money.FromFloat(200),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return p
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_RequiresShelterRole(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), auth.Actor{ID: "u-1", Role: auth.RoleUser}, CreateInput{
		ShelterID: "shelter-1",
		Name:      "Milo",
	})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestService_Create_DefaultsAndValidation(t *testing.T) {
	svc := NewService(newTestRepo())

	p := newPet(t, svc)
	if p.AdoptionStatus != StatusAvailable {
		t.Fatalf("expected available, got %s", p.AdoptionStatus)
	}
	if p.Sex != SexUnknown {
		t.Fatalf("expected default sex unknown, got %s", p.Sex)
	}

	_, err := svc.Create(context.Background(), shelterActor, CreateInput{ShelterID: "s", Name: "x", AdoptionFee: -1})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for negative fee, got %v", err)
	}
}

func TestService_HoldRelease(t *testing.T) {
	svc := NewService(newTestRepo())
	p := newPet(t, svc)

	held, err := svc.Hold(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Hold error: %v", err)
	}
	if held.AdoptionStatus != StatusPending {
		t.Fatalf("expected pending, got %s", held.AdoptionStatus)
	}

	// Una segunda retención no puede pisar la primera.
	if _, err := svc.Hold(context.Background(), p.ID); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("expected invalid state on second hold, got %v", err)
	}

	released, err := svc.Release(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Release error: %v", err)
	}
	if released.AdoptionStatus != StatusAvailable {
		t.Fatalf("expected available, got %s", released.AdoptionStatus)
	}

	// Release sobre available es no-op
	if _, err := svc.Release(context.Background(), p.ID); err != nil {
		t.Fatalf("Release no-op error: %v", err)
	}
}

func TestService_MarkAdopted_IdempotentPerApplication(t *testing.T) {
	svc := NewService(newTestRepo())
	p := newPet(t, svc)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	adopted, err := svc.MarkAdopted(context.Background(), p.ID, "app-1", "user-1", at)
	if err != nil {
		t.Fatalf("MarkAdopted error: %v", err)
	}
	if adopted.AdoptionStatus != StatusAdopted || adopted.AdoptionDate == nil || !adopted.AdoptionDate.Equal(at) {
		t.Fatalf("unexpected pet after adoption: %#v", adopted)
	}
	if len(adopted.AdoptionHistory) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(adopted.AdoptionHistory))
	}

	again, err := svc.MarkAdopted(context.Background(), p.ID, "app-1", "user-1", at.Add(time.Hour))
	if err != nil {
		t.Fatalf("MarkAdopted retry error: %v", err)
	}
	if len(again.AdoptionHistory) != 1 {
		t.Fatalf("retry must not duplicate history, got %d", len(again.AdoptionHistory))
	}

	_, err = svc.MarkAdopted(context.Background(), p.ID, "app-2", "user-2", at)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict for other application, got %v", err)
	}
}

func TestService_MarkReturned(t *testing.T) {
	svc := NewService(newTestRepo())
	p := newPet(t, svc)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, err := svc.MarkAdopted(context.Background(), p.ID, "app-1", "user-1", at); err != nil {
		t.Fatalf("MarkAdopted error: %v", err)
	}
	returned, err := svc.MarkReturned(context.Background(), p.ID, "app-1", at.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("MarkReturned error: %v", err)
	}
	if returned.AdoptionStatus != StatusAvailable || returned.AdoptionDate != nil {
		t.Fatalf("expected available without adoption date, got %#v", returned)
	}
	if returned.AdoptionHistory[0].ReturnedAt == nil {
		t.Fatalf("expected returned_at on history entry")
	}
}

func TestService_Mutate_TranslatesStorageErrors(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	if _, err := svc.Hold(context.Background(), "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	p := newPet(t, svc)
	repo.failWrite = storage.ErrVersionConflict
	_, err := svc.Hold(context.Background(), p.ID)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("expected storage cause to be kept, got %v", err)
	}
}

func TestService_AdoptedThrough(t *testing.T) {
	svc := NewService(newTestRepo())
	p := newPet(t, svc)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if p.AdoptedThrough("app-1") {
		t.Fatalf("available pet must not report an adoption")
	}
	adopted, err := svc.MarkAdopted(context.Background(), p.ID, "app-1", "user-1", at)
	if err != nil {
		t.Fatalf("MarkAdopted error: %v", err)
	}
	if !adopted.AdoptedThrough("app-1") || adopted.AdoptedThrough("app-2") {
		t.Fatalf("unexpected AdoptedThrough result for %#v", adopted.AdoptionHistory)
	}
	returned, err := svc.MarkReturned(context.Background(), p.ID, "app-1", at.Add(time.Hour))
	if err != nil {
		t.Fatalf("MarkReturned error: %v", err)
	}
	if returned.AdoptedThrough("app-1") {
		t.Fatalf("returned pet must not report the old adoption")
	}
}
