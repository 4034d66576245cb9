package activities

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"pet-adoption-hub/internal/platform/apperr"
	"pet-adoption-hub/internal/ports/auth"
	"pet-adoption-hub/internal/ports/notify"
	"pet-adoption-hub/internal/ports/storage"
)

// -------------------------
// Test doubles
// -------------------------

type testRepo struct {
	byID map[string]Activity
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Activity{}}
}

func (r *testRepo) Create(ctx context.Context, a Activity) error {
	r.byID[a.ID] = a.Clone()
	return nil
}

func (r *testRepo) Update(ctx context.Context, a Activity) error {
	cur, ok := r.byID[a.ID]
	if !ok {
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

func (r *testRepo) GetByID(ctx context.Context, id string) (Activity, error) {
	a, ok := r.byID[id]
	if !ok {
		return Activity{}, storage.ErrNotFound
	}
	return a.Clone(), nil
}

func (r *testRepo) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]Activity, error) {
	out := make([]Activity, 0)
	for _, a := range r.byID {
		if a.StartTime.After(from) {
			out = append(out, a.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type recordingNotifier struct {
	sent []notify.Notification
}

func (n *recordingNotifier) Notify(ctx context.Context, msg notify.Notification) error {
	n.sent = append(n.sent, msg)
	return nil
}

var (
	organizer = auth.Actor{ID: "shelter-user", Role: auth.RoleShelter}
	userA     = auth.Actor{ID: "user-a", Role: auth.RoleUser}
	userB     = auth.Actor{ID: "user-b", Role: auth.RoleUser}
	userC     = auth.Actor{ID: "user-c", Role: auth.RoleUser}
)

func newTestService(t *testing.T) (*Service, *testRepo, *recordingNotifier, *time.Time) {
	t.Helper()
	repo := newTestRepo()
	n := &recordingNotifier{}
	svc := NewService(repo, nil, n)
	clock := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, repo, n, &clock
}

func newActivity(t *testing.T, svc *Service, start time.Time, max int) Activity {
	t.Helper()
	a, err := svc.Create(context.Background(), organizer, CreateInput{
		Title:       "Adoption fair",
		Kind:        KindAdoptionEvent,
		StartTime:   start,
		MaxCapacity: max,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return a
}

func mustCapacity(t *testing.T, a Activity, current, waitlist int) {
	t.Helper()
	if a.Capacity.Current != current || a.Capacity.Waitlist != waitlist {
		t.Fatalf("expected current=%d waitlist=%d, got %+v", current, waitlist, a.Capacity)
	}
	if err := CheckCapacity(a); err != nil {
		t.Fatalf("capacity check: %v", err)
	}
}

// -------------------------
// Tests
// -------------------------

func TestCreate_Validation(t *testing.T) {
	svc, _, _, clock := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, userA, CreateInput{Title: "x", StartTime: clock.Add(time.Hour), MaxCapacity: 1}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden for user, got %v", err)
	}
	if _, err := svc.Create(ctx, organizer, CreateInput{Title: "x", StartTime: clock.Add(time.Hour), MaxCapacity: 0}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation for max=0, got %v", err)
	}
	if _, err := svc.Create(ctx, organizer, CreateInput{Title: "x", StartTime: clock.Add(-time.Hour), MaxCapacity: 1}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation for past start, got %v", err)
	}

	a := newActivity(t, svc, clock.Add(24*time.Hour), 3)
	mustCapacity(t, a, 0, 0)
	if a.EndTime.IsZero() || a.Kind != KindAdoptionEvent {
		t.Fatalf("unexpected activity: %#v", a)
	}
}

func TestRegister_WaitlistPromotion(t *testing.T) {
	svc, _, n, clock := newTestService(t)
	ctx := context.Background()
	a := newActivity(t, svc, clock.Add(24*time.Hour), 1)

	a, err := svc.Register(ctx, a.ID, userA, "")
	if err != nil {
		t.Fatalf("register A: %v", err)
	}
	mustCapacity(t, a, 1, 0)

	a, err = svc.Register(ctx, a.ID, userB, "")
	if err != nil {
		t.Fatalf("register B: %v", err)
	}
	mustCapacity(t, a, 1, 1)
	if a.Participants[1].Status != ParticipantWaitlisted {
		t.Fatalf("expected B waitlisted, got %s", a.Participants[1].Status)
	}

	a, err = svc.Unregister(ctx, a.ID, userA)
	if err != nil {
		t.Fatalf("unregister A: %v", err)
	}
	mustCapacity(t, a, 1, 0)
	if a.Participants[0].Status != ParticipantCancelled || a.Participants[1].Status != ParticipantRegistered {
		t.Fatalf("expected A cancelled and B promoted, got %#v", a.Participants)
	}
	if a.Participants[1].PromotedAt == nil {
		t.Fatalf("expected promoted_at on B")
	}
	if len(n.sent) != 1 || n.sent[0].Recipient != userB.ID || n.sent[0].Kind != notify.KindActivityPromoted {
		t.Fatalf("expected promotion notification to B, got %#v", n.sent)
	}
}

func TestUnregister_PromotesStrictlyFIFO(t *testing.T) {
	svc, _, _, clock := newTestService(t)
	ctx := context.Background()
	a := newActivity(t, svc, clock.Add(24*time.Hour), 1)

	for _, u := range []auth.Actor{userA, userB, userC} {
		var err error
		if a, err = svc.Register(ctx, a.ID, u, ""); err != nil {
			t.Fatalf("register %s: %v", u.ID, err)
		}
	}
	mustCapacity(t, a, 1, 2)

	a, err := svc.Unregister(ctx, a.ID, userA)
	if err != nil {
		t.Fatalf("unregister: %v", err)
	}
	mustCapacity(t, a, 1, 1)
	if a.Participants[1].UserID != userB.ID || a.Participants[1].Status != ParticipantRegistered {
		t.Fatalf("expected B (earliest) promoted, got %#v", a.Participants)
	}
	if a.Participants[2].Status != ParticipantWaitlisted {
		t.Fatalf("expected C still waitlisted")
	}
}

func TestUnregister_WaitlistedOnlyDecrementsWaitlist(t *testing.T) {
	svc, _, n, clock := newTestService(t)
	ctx := context.Background()
	a := newActivity(t, svc, clock.Add(24*time.Hour), 1)

	a, _ = svc.Register(ctx, a.ID, userA, "")
	a, _ = svc.Register(ctx, a.ID, userB, "")

	a, err := svc.Unregister(ctx, a.ID, userB)
	if err != nil {
		t.Fatalf("unregister B: %v", err)
	}
	mustCapacity(t, a, 1, 0)
	if len(n.sent) != 0 {
		t.Fatalf("no promotion expected")
	}
}

func TestRegister_DuplicateAndReRegister(t *testing.T) {
	svc, _, _, clock := newTestService(t)
	ctx := context.Background()
	a := newActivity(t, svc, clock.Add(24*time.Hour), 2)

	if _, err := svc.Register(ctx, a.ID, userA, ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, a.ID, userA, ""); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict on duplicate, got %v", err)
	}

	if _, err := svc.Unregister(ctx, a.ID, userA); err != nil {
		t.Fatalf("unregister: %v", err)
	}
	again, err := svc.Register(ctx, a.ID, userA, "back again")
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	mustCapacity(t, again, 1, 0)
	if len(again.Participants) != 2 {
		t.Fatalf("cancelled entry must be kept, got %d participants", len(again.Participants))
	}
}

func TestRegister_StartedActivityIsClosed(t *testing.T) {
	svc, repo, _, clock := newTestService(t)
	ctx := context.Background()
	a := newActivity(t, svc, clock.Add(time.Hour), 2)
	if _, err := svc.Register(ctx, a.ID, userA, ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	*clock = clock.Add(2 * time.Hour)

	if _, err := svc.Register(ctx, a.ID, userB, ""); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("expected invalid state for register, got %v", err)
	}
	if _, err := svc.Unregister(ctx, a.ID, userA); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("expected invalid state for unregister, got %v", err)
	}
	stored, _ := repo.GetByID(ctx, a.ID)
	mustCapacity(t, stored, 1, 0)
}

func TestUnregister_NotRegistered(t *testing.T) {
	svc, _, _, clock := newTestService(t)
	a := newActivity(t, svc, clock.Add(24*time.Hour), 2)

	if _, err := svc.Unregister(context.Background(), a.ID, userA); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "missing", userA, ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for unknown activity, got %v", err)
	}
}

func TestCheckCapacity_DetectsDrift(t *testing.T) {
	a := Activity{
		ID:       "act-1",
		Capacity: Capacity{Max: 2, Current: 2, Waitlist: 0},
		Participants: []Participant{
			{UserID: "u1", Status: ParticipantRegistered},
			{UserID: "u2", Status: ParticipantCancelled},
		},
	}
	if err := CheckCapacity(a); err == nil {
		t.Fatalf("expected drift to be reported")
	}
	a.Capacity = CountCapacity(a)
	if err := CheckCapacity(a); err != nil {
		t.Fatalf("unexpected error after recount: %v", err)
	}
}

func TestListUpcoming_SkipsPast(t *testing.T) {
	svc, repo, _, clock := newTestService(t)
	soon := newActivity(t, svc, clock.Add(time.Hour), 5)
	later := newActivity(t, svc, clock.Add(48*time.Hour), 5)

	past := soon.Clone()
	past.ID = "past"
	past.StartTime = clock.Add(-time.Hour)
	repo.byID[past.ID] = past

	items, err := svc.ListUpcoming(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != soon.ID || items[1].ID != later.ID {
		t.Fatalf("unexpected upcoming list: %#v", items)
	}
}
