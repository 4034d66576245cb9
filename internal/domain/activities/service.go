package activities

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption-hub/internal/platform/apperr"
	"pet-adoption-hub/internal/platform/logger"
	"pet-adoption-hub/internal/platform/metrics"
	"pet-adoption-hub/internal/ports/auth"
	"pet-adoption-hub/internal/ports/notify"
	"pet-adoption-hub/internal/ports/storage"
)

type Service struct {
	repo     Repository
	log      logger.Logger
	notifier notify.Notifier
	now      func() time.Time
}

func NewService(repo Repository, log logger.Logger, notifier notify.Notifier) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		log:      log.With(map[string]any{"component": "activities"}),
		notifier: notifier,
		now:      time.Now,
	}
}

type CreateInput struct {
	ShelterID   string
	Title       string
	Description string
	Kind        Kind
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	MaxCapacity int
}

// Create publica una actividad (shelter o admin). Arranca sin participantes.
func (s *Service) Create(ctx context.Context, actor auth.Actor, in CreateInput) (Activity, error) {
	if actor.Role != auth.RoleShelter && actor.Role != auth.RoleAdmin {
		return Activity{}, apperr.Forbidden("only shelters can organize activities")
	}
	if strings.TrimSpace(in.Title) == "" {
		return Activity{}, apperr.Validation("title", "required")
	}
	if in.MaxCapacity < 1 {
		return Activity{}, apperr.Validation("max_capacity", "must be >= 1")
	}
	now := s.now()
	if !in.StartTime.After(now) {
		return Activity{}, apperr.Validation("start_time", "must be in the future")
	}
	end := in.EndTime
	if end.IsZero() {
		end = in.StartTime.Add(2 * time.Hour)
	}
	if end.Before(in.StartTime) {
		return Activity{}, apperr.Validation("end_time", "must be after start_time")
	}
	kind := in.Kind
	if kind == "" {
		kind = KindOther
	}

	a := Activity{
		ID:           uuid.NewString(),
		OrganizerID:  actor.ID,
		ShelterID:    strings.TrimSpace(in.ShelterID),
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Kind:         kind,
		Location:     strings.TrimSpace(in.Location),
		StartTime:    in.StartTime,
		EndTime:      end,
		Capacity:     Capacity{Max: in.MaxCapacity},
		Participants: []Participant{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Activity{}, err
	}
	s.log.Info("activity created", map[string]any{
		"activity_id": a.ID,
		"max":         a.Capacity.Max,
	})
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (Activity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Activity{}, apperr.Validation("activity_id", "required")
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Activity{}, translate(err, id)
	}
	return a, nil
}

func (s *Service) ListUpcoming(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListUpcoming(ctx, s.now(), limit)
}

// Register inscribe al actor. Con cupo queda registered; si no, waitlisted.
func (s *Service) Register(ctx context.Context, id string, actor auth.Actor, notes string) (Activity, error) {
	if actor.ID == "" {
		return Activity{}, apperr.Forbidden("missing actor")
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return Activity{}, err
	}
	now := s.now()
	if !a.StartTime.After(now) {
		return Activity{}, apperr.InvalidState("started", "activity %s already started", a.ID)
	}
	if i := a.activeRegistration(actor.ID); i >= 0 {
		return Activity{}, apperr.Conflict("user_id", "user %s is already %s", actor.ID, a.Participants[i].Status)
	}

	p := Participant{
		UserID:       actor.ID,
		RegisteredAt: now,
		Notes:        strings.TrimSpace(notes),
	}
	if a.Capacity.Current < a.Capacity.Max {
		p.Status = ParticipantRegistered
		a.Capacity.Current++
	} else {
		p.Status = ParticipantWaitlisted
		a.Capacity.Waitlist++
	}
	a.Participants = append(a.Participants, p)
	a.UpdatedAt = now

	if err := s.save(ctx, &a); err != nil {
		return Activity{}, err
	}
	metrics.ActivityRegistrations.WithLabelValues(string(p.Status)).Inc()
	s.log.Info("activity registration", map[string]any{
		"activity_id": a.ID,
		"user_id":     actor.ID,
		"status":      string(p.Status),
		"current":     a.Capacity.Current,
		"waitlist":    a.Capacity.Waitlist,
	})
	return a, nil
}

// Unregister cancela la inscripción del actor. Si liberó un lugar, promueve
// al primer waitlisted por orden de inscripción, en la misma escritura.
func (s *Service) Unregister(ctx context.Context, id string, actor auth.Actor) (Activity, error) {
	if actor.ID == "" {
		return Activity{}, apperr.Forbidden("missing actor")
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return Activity{}, err
	}
	now := s.now()
	if !a.StartTime.After(now) {
		return Activity{}, apperr.InvalidState("started", "activity %s already started", a.ID)
	}
	i := a.activeRegistration(actor.ID)
	if i < 0 {
		return Activity{}, apperr.NotFound("user_id", "user %s is not registered", actor.ID)
	}

	prev := a.Participants[i].Status
	a.Participants[i].Status = ParticipantCancelled
	a.Participants[i].CancelledAt = &now

	var promoted *Participant
	switch prev {
	case ParticipantRegistered:
		a.Capacity.Current--
		promoted = promoteNext(&a, now)
	case ParticipantWaitlisted:
		a.Capacity.Waitlist--
	default:
		return Activity{}, apperr.InvalidState(string(prev), "registration is already %s", prev)
	}
	a.UpdatedAt = now

	if err := s.save(ctx, &a); err != nil {
		return Activity{}, err
	}
	metrics.ActivityRegistrations.WithLabelValues(string(ParticipantCancelled)).Inc()
	s.log.Info("activity unregistration", map[string]any{
		"activity_id": a.ID,
		"user_id":     actor.ID,
		"current":     a.Capacity.Current,
		"waitlist":    a.Capacity.Waitlist,
	})

	if promoted != nil {
		metrics.ActivityRegistrations.WithLabelValues("promoted").Inc()
		s.notifyPromoted(ctx, a, promoted.UserID)
	}
	return a, nil
}

// promoteNext pasa a registered al waitlisted más antiguo (FIFO estricto).
func promoteNext(a *Activity, now time.Time) *Participant {
	if a.Capacity.Current >= a.Capacity.Max {
		return nil
	}
	next := -1
	for i, p := range a.Participants {
		if p.Status != ParticipantWaitlisted {
			continue
		}
		if next < 0 || p.RegisteredAt.Before(a.Participants[next].RegisteredAt) {
			next = i
		}
	}
	if next < 0 {
		return nil
	}
	p := &a.Participants[next]
	p.Status = ParticipantRegistered
	p.PromotedAt = &now
	a.Capacity.Current++
	a.Capacity.Waitlist--
	return p
}

// CheckCapacity compara los contadores cacheados con los recalculados.
func CheckCapacity(a Activity) error {
	want := CountCapacity(a)
	if want != a.Capacity {
		return fmt.Errorf("activity %s capacity drift: cached current=%d waitlist=%d, counted current=%d waitlist=%d",
			a.ID, a.Capacity.Current, a.Capacity.Waitlist, want.Current, want.Waitlist)
	}
	if a.Capacity.Current > a.Capacity.Max {
		return fmt.Errorf("activity %s over capacity: %d > %d", a.ID, a.Capacity.Current, a.Capacity.Max)
	}
	return nil
}

func (s *Service) save(ctx context.Context, a *Activity) error {
	if err := CheckCapacity(*a); err != nil {
		s.log.Error("refusing to persist inconsistent activity", map[string]any{"error": err})
		return apperr.InvalidState("capacity", "%v", err)
	}
	if err := s.repo.Update(ctx, *a); err != nil {
		return translate(err, a.ID)
	}
	a.Version++
	return nil
}

func (s *Service) notifyPromoted(ctx context.Context, a Activity, userID string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Notify(ctx, notify.Notification{
		Kind:       notify.KindActivityPromoted,
		Recipient:  userID,
		Subject:    fmt.Sprintf("A spot opened up for %s", a.Title),
		EntityID:   a.ID,
		Attributes: map[string]string{"start_time": a.StartTime.Format(time.RFC3339)},
		At:         s.now(),
	})
	if err != nil {
		s.log.Warn("notification failed", map[string]any{
			"kind":      string(notify.KindActivityPromoted),
			"entity_id": a.ID,
			"error":     err,
		})
	}
}

func translate(err error, id string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperr.NotFound("activity_id", "activity %s not found", id)
	case errors.Is(err, storage.ErrVersionConflict):
		return apperr.Conflict("activity_id", "activity %s was modified concurrently", id)
	default:
		return err
	}
}
