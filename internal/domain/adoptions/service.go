package adoptions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption-hub/internal/domain/pets"
	"pet-adoption-hub/internal/platform/apperr"
	"pet-adoption-hub/internal/platform/logger"
	"pet-adoption-hub/internal/platform/metrics"
	"pet-adoption-hub/internal/platform/money"
	"pet-adoption-hub/internal/ports/auth"
	"pet-adoption-hub/internal/ports/notify"
	"pet-adoption-hub/internal/ports/storage"
)

// PetGateway es lo que el motor necesita del módulo de mascotas.
type PetGateway interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
	Hold(ctx context.Context, petID string) (pets.Pet, error)
	Release(ctx context.Context, petID string) (pets.Pet, error)
	MarkAdopted(ctx context.Context, petID, applicationID, adopterID string, at time.Time) (pets.Pet, error)
	MarkReturned(ctx context.Context, petID, applicationID string, at time.Time) (pets.Pet, error)
}

// ShelterDirectory resuelve el dueño de cada refugio (para acotar el rol
// shelter) y lleva las estadísticas de adopciones.
type ShelterDirectory interface {
	OwnerOf(ctx context.Context, shelterID string) (string, error)
	RecordAdoption(ctx context.Context, shelterID, applicationID string) error
}

type Options struct {
	// HoldPetOnSubmit pasa la mascota a pending al recibir la solicitud.
	HoldPetOnSubmit bool
	// CompletionRetries: intentos de los side effects sobre mascota/refugio.
	CompletionRetries int
	Logger            logger.Logger
	Notifier          notify.Notifier
}

type Service struct {
	repo     Repository
	pets     PetGateway
	shelters ShelterDirectory
	log      logger.Logger
	notifier notify.Notifier

	holdPet bool
	retries int
	backoff time.Duration
	now     func() time.Time
}

func NewService(repo Repository, petGW PetGateway, shelters ShelterDirectory, opts Options) *Service {
	if opts.CompletionRetries < 1 {
		opts.CompletionRetries = 3
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	return &Service{
		repo:     repo,
		pets:     petGW,
		shelters: shelters,
		log:      opts.Logger.With(map[string]any{"component": "adoptions"}),
		notifier: opts.Notifier,
		holdPet:  opts.HoldPetOnSubmit,
		retries:  opts.CompletionRetries,
		backoff:  50 * time.Millisecond,
		now:      time.Now,
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, notify.Notification) error { return nil }

type SubmitInput struct {
	PetID        string
	PersonalInfo PersonalInfo
	HousingInfo  HousingInfo
	References   []Reference
}

// Submit crea una solicitud en submitted para el actor.
func (s *Service) Submit(ctx context.Context, actor auth.Actor, in SubmitInput) (app Application, err error) {
	defer s.observe("submit", &err)

	if err := Authorize(OpSubmit, actor, nil, ""); err != nil {
		return Application{}, err
	}
	petID := strings.TrimSpace(in.PetID)
	if petID == "" {
		return Application{}, apperr.Validation("pet_id", "required")
	}

	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Application{}, err
	}

	existing, err := s.repo.ListByPet(ctx, pet.ID)
	if err != nil {
		return Application{}, err
	}
	for _, e := range existing {
		if e.ApplicantID == actor.ID && IsActive(e.Status) {
			return Application{}, apperr.Conflict("pet_id", "applicant already has active application %s for pet %s", e.ID, pet.ID)
		}
	}
	if pet.AdoptionStatus != pets.StatusAvailable {
		return Application{}, apperr.Conflict("pet_id", "pet %s is %s", pet.ID, pet.AdoptionStatus)
	}

	now := s.now()
	app = Application{
		ID:           uuid.NewString(),
		PetID:        pet.ID,
		ApplicantID:  actor.ID,
		ShelterID:    pet.ShelterID,
		Status:       StatusSubmitted,
		PersonalInfo: in.PersonalInfo,
		HousingInfo:  in.HousingInfo,
		References:   append([]Reference{}, in.References...),
		Visits:       []Visit{},
		Fees:         Fees{AdoptionFee: pet.AdoptionFee},
		SubmittedAt:  now,
		UpdatedAt:    now,
	}
	app.appendTimeline(StatusSubmitted, now, "application submitted", actor.ID)

	if s.holdPet {
		if _, err := s.pets.Hold(ctx, pet.ID); err != nil {
			if apperr.KindOf(err) == apperr.KindInvalidState {
				return Application{}, apperr.Conflict("pet_id", "pet %s is no longer available", pet.ID)
			}
			return Application{}, err
		}
		app.PetHeld = true
	}

	if err := s.repo.Create(ctx, app); err != nil {
		err = translate(err, app.ID)
		if app.PetHeld {
			if _, rerr := s.pets.Release(ctx, pet.ID); rerr != nil {
				s.log.Error("pet left pending after failed submit", map[string]any{
					"pet_id": pet.ID,
					"error":  rerr,
				})
				return Application{}, apperr.PartialFailure(rerr, "application was not stored and pet %s is still pending", pet.ID)
			}
		}
		return Application{}, err
	}

	s.log.Info("adoption application submitted", map[string]any{
		"application_id": app.ID,
		"pet_id":         app.PetID,
		"applicant_id":   app.ApplicantID,
	})
	s.notifyStatus(ctx, app, "")
	return app, nil
}

// TransitionStatus aplica un cambio de estado manual validado contra el grafo.
// Si el guardado funciona pero fallan los side effects devuelve la solicitud
// actualizada junto con un PartialFailure.
func (s *Service) TransitionStatus(ctx context.Context, id string, actor auth.Actor, to Status, notes string) (app Application, err error) {
	defer s.observe("transition_status", &err)

	if !ValidStatus(to) {
		return Application{}, apperr.Validation("status", "unknown status %q", to)
	}
	app, err = s.load(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if err := s.authorize(ctx, operationFor(to), actor, &app, app.ShelterID); err != nil {
		return Application{}, err
	}

	from := app.Status
	if err := moveTo(&app, to, s.now(), strings.TrimSpace(notes), actor.ID); err != nil {
		return Application{}, err
	}
	if to == StatusAdoptionCompleted {
		if err := s.checkAdoptable(ctx, app); err != nil {
			return Application{}, err
		}
	}
	if err := s.save(ctx, &app); err != nil {
		return Application{}, err
	}
	s.afterTransition(ctx, from, app, actor.ID)

	if err := s.applySideEffects(ctx, app); err != nil {
		return app, err
	}
	return app, nil
}

type ScheduleVisitInput struct {
	Type          VisitType
	ScheduledDate time.Time
	Notes         string
}

// visitWindows: estados en los que se puede agendar cada tipo de visita.
var visitWindows = map[VisitType][]Status{
	VisitMeetAndGreet: {StatusApproved, StatusMeetScheduled},
	VisitHomeVisit:    {StatusMeetCompleted, StatusHomeVisitScheduled},
	VisitFollowUp:     {StatusAdoptionCompleted},
}

// ScheduleVisit agrega una visita agendada. No cambia el estado de la solicitud.
// Una visita previa del mismo tipo todavía agendada pasa a rescheduled.
func (s *Service) ScheduleVisit(ctx context.Context, id string, actor auth.Actor, in ScheduleVisitInput) (app Application, err error) {
	defer s.observe("schedule_visit", &err)

	window, ok := visitWindows[in.Type]
	if !ok {
		return Application{}, apperr.Validation("type", "unknown visit type %q", in.Type)
	}
	app, err = s.load(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if err := s.authorize(ctx, OpScheduleVisit, actor, &app, app.ShelterID); err != nil {
		return Application{}, err
	}
	if !containsStatus(window, app.Status) {
		return Application{}, apperr.InvalidState(string(app.Status), "cannot schedule %s while application is %s", in.Type, app.Status)
	}

	now := s.now()
	if !in.ScheduledDate.After(now) {
		return Application{}, apperr.Validation("scheduled_date", "must be in the future")
	}

	for i := range app.Visits {
		if app.Visits[i].Type == in.Type && app.Visits[i].Status == VisitScheduled {
			app.Visits[i].Status = VisitRescheduled
		}
	}
	app.Visits = append(app.Visits, Visit{
		ID:            uuid.NewString(),
		Type:          in.Type,
		ScheduledDate: in.ScheduledDate,
		Status:        VisitScheduled,
		Notes:         strings.TrimSpace(in.Notes),
		ScheduledBy:   actor.ID,
	})
	app.UpdatedAt = now

	if err := s.save(ctx, &app); err != nil {
		return Application{}, err
	}
	s.log.Info("visit scheduled", map[string]any{
		"application_id": app.ID,
		"visit_type":     string(in.Type),
		"scheduled_date": in.ScheduledDate.Format(time.RFC3339),
	})
	return app, nil
}

// CompleteVisit registra el resultado de una visita agendada. approved avanza
// a *-completed, rejected rechaza la solicitud y needs-follow-up no cambia el
// estado. En todos los casos queda una entrada en el timeline.
func (s *Service) CompleteVisit(ctx context.Context, id string, actor auth.Actor, visitID string, outcome VisitOutcome, notes string) (app Application, err error) {
	defer s.observe("complete_visit", &err)

	switch outcome {
	case OutcomeApproved, OutcomeRejected, OutcomeNeedsFollowUp:
	default:
		return Application{}, apperr.Validation("outcome", "unknown outcome %q", outcome)
	}
	app, err = s.load(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if err := s.authorize(ctx, OpCompleteVisit, actor, &app, app.ShelterID); err != nil {
		return Application{}, err
	}

	v := app.visit(strings.TrimSpace(visitID))
	if v == nil {
		return Application{}, apperr.NotFound("visit_id", "visit %s not found", visitID)
	}
	if v.Status != VisitScheduled {
		return Application{}, apperr.InvalidState(string(v.Status), "visit %s is %s", v.ID, v.Status)
	}

	from := app.Status
	target := visitTarget(v.Type, outcome)
	if target == from {
		target = ""
	}
	if target != "" && !CanTransition(from, target, app.HeldFrom) {
		return Application{}, apperr.InvalidTransition(string(from), string(target))
	}

	now := s.now()
	notes = strings.TrimSpace(notes)
	v.Status = VisitCompleted
	v.Outcome = outcome
	v.CompletedAt = &now
	if notes != "" {
		v.Notes = notes
	}

	entryNotes := fmt.Sprintf("%s visit completed: %s", v.Type, outcome)
	if notes != "" {
		entryNotes += ": " + notes
	}
	if target != "" {
		if err := moveTo(&app, target, now, entryNotes, actor.ID); err != nil {
			return Application{}, err
		}
	} else {
		app.appendTimeline(app.Status, now, entryNotes, actor.ID)
		app.UpdatedAt = now
	}

	if err := s.save(ctx, &app); err != nil {
		return Application{}, err
	}
	if target == "" {
		return app, nil
	}
	s.afterTransition(ctx, from, app, actor.ID)
	if err := s.applySideEffects(ctx, app); err != nil {
		return app, err
	}
	return app, nil
}

func visitTarget(t VisitType, outcome VisitOutcome) Status {
	switch outcome {
	case OutcomeRejected:
		if t == VisitFollowUp {
			return ""
		}
		return StatusRejected
	case OutcomeApproved:
		switch t {
		case VisitMeetAndGreet:
			return StatusMeetCompleted
		case VisitHomeVisit:
			return StatusHomeVisitCompleted
		}
	}
	return ""
}

type PaymentInput struct {
	Amount    money.Cents
	Method    string
	Reference string
}

// RecordPayment suma un pago. Si la solicitud está en adoption-approved y el
// total queda cubierto, avanza a adoption-completed en la misma escritura.
func (s *Service) RecordPayment(ctx context.Context, id string, actor auth.Actor, in PaymentInput) (app Application, err error) {
	defer s.observe("record_payment", &err)

	if in.Amount <= 0 {
		return Application{}, apperr.Validation("amount", "must be > 0")
	}
	app, err = s.load(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if err := s.authorize(ctx, OpRecordPayment, actor, &app, app.ShelterID); err != nil {
		return Application{}, err
	}
	if IsTerminal(app.Status) && app.Status != StatusAdoptionCompleted {
		return Application{}, apperr.InvalidState(string(app.Status), "application %s is closed", app.ID)
	}

	method := strings.TrimSpace(in.Method)
	if method == "" {
		method = "unspecified"
	}

	now := s.now()
	from := app.Status
	app.Fees.Paid += in.Amount
	app.Fees.Payments = append(app.Fees.Payments, Payment{
		Amount:     in.Amount,
		Method:     method,
		Reference:  strings.TrimSpace(in.Reference),
		PaidAt:     now,
		RecordedBy: actor.ID,
	})
	app.UpdatedAt = now

	advanced := false
	if app.Status == StatusAdoptionApproved && app.Fees.fullyPaid() {
		// El pago que completaría una adopción imposible se rechaza entero.
		if err := s.checkAdoptable(ctx, app); err != nil {
			return Application{}, err
		}
		if err := moveTo(&app, StatusAdoptionCompleted, now, "adoption fee paid in full", actor.ID); err != nil {
			return Application{}, err
		}
		advanced = true
	}

	if err := s.save(ctx, &app); err != nil {
		return Application{}, err
	}
	metrics.PaymentsRecorded.Inc()
	s.log.Info("payment recorded", map[string]any{
		"application_id": app.ID,
		"amount":         in.Amount.String(),
		"payment_status": string(app.Fees.PaymentStatus()),
	})

	if !advanced {
		return app, nil
	}
	s.afterTransition(ctx, from, app, actor.ID)
	if err := s.applySideEffects(ctx, app); err != nil {
		return app, err
	}
	return app, nil
}

// AddFee agrega un cargo adicional (vacunas, microchip, ...).
func (s *Service) AddFee(ctx context.Context, id string, actor auth.Actor, description string, amount money.Cents) (app Application, err error) {
	defer s.observe("add_fee", &err)

	description = strings.TrimSpace(description)
	if description == "" {
		return Application{}, apperr.Validation("description", "required")
	}
	if amount <= 0 {
		return Application{}, apperr.Validation("amount", "must be > 0")
	}
	app, err = s.load(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if err := s.authorize(ctx, OpAddFee, actor, &app, app.ShelterID); err != nil {
		return Application{}, err
	}
	if IsTerminal(app.Status) {
		return Application{}, apperr.InvalidState(string(app.Status), "application %s is closed", app.ID)
	}

	app.Fees.AdditionalFees = append(app.Fees.AdditionalFees, Fee{Description: description, Amount: amount})
	app.UpdatedAt = s.now()
	if err := s.save(ctx, &app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// ApplicantInfoInput: los campos nil no se tocan.
type ApplicantInfoInput struct {
	PersonalInfo *PersonalInfo
	HousingInfo  *HousingInfo
	References   []Reference
}

// UpdateApplicantInfo edita los datos del solicitante mientras la solicitud sigue en submitted.
func (s *Service) UpdateApplicantInfo(ctx context.Context, id string, actor auth.Actor, in ApplicantInfoInput) (app Application, err error) {
	defer s.observe("update_applicant_info", &err)

	app, err = s.load(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if err := s.authorize(ctx, OpUpdateInfo, actor, &app, app.ShelterID); err != nil {
		return Application{}, err
	}
	if app.Status != StatusSubmitted {
		return Application{}, apperr.InvalidState(string(app.Status), "applicant info is frozen once review starts")
	}

	if in.PersonalInfo != nil {
		app.PersonalInfo = *in.PersonalInfo
	}
	if in.HousingInfo != nil {
		app.HousingInfo = *in.HousingInfo
	}
	if in.References != nil {
		app.References = append([]Reference{}, in.References...)
	}
	app.UpdatedAt = s.now()

	if err := s.save(ctx, &app); err != nil {
		return Application{}, err
	}
	return app, nil
}

func (s *Service) Get(ctx context.Context, id string, actor auth.Actor) (Application, error) {
	app, err := s.load(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if err := s.authorize(ctx, OpView, actor, &app, app.ShelterID); err != nil {
		return Application{}, err
	}
	return app, nil
}

// ListMine devuelve las solicitudes del actor.
func (s *Service) ListMine(ctx context.Context, actor auth.Actor) ([]Application, error) {
	if actor.ID == "" {
		return nil, apperr.Forbidden("missing actor")
	}
	return s.repo.ListByApplicant(ctx, actor.ID)
}

// ListByPet lista las solicitudes de una mascota para el refugio que la publicó.
func (s *Service) ListByPet(ctx context.Context, actor auth.Actor, petID string) ([]Application, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, apperr.Validation("pet_id", "required")
	}
	shelterID := ""
	if actor.Role == auth.RoleShelter {
		pet, err := s.pets.GetByID(ctx, petID)
		if err != nil {
			return nil, err
		}
		shelterID = pet.ShelterID
	}
	if err := s.authorize(ctx, OpListByPet, actor, nil, shelterID); err != nil {
		return nil, err
	}
	return s.repo.ListByPet(ctx, petID)
}

// ReconcileCompletion reaplica los side effects de adoption-completed
// (mascota adoptada + estadísticas del refugio). Es el reintento del caller
// después de un PartialFailure; los dos pasos son idempotentes.
func (s *Service) ReconcileCompletion(ctx context.Context, id string, actor auth.Actor) (app Application, err error) {
	defer s.observe("reconcile", &err)

	app, err = s.load(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if err := s.authorize(ctx, OpReconcile, actor, &app, app.ShelterID); err != nil {
		return Application{}, err
	}
	if app.Status != StatusAdoptionCompleted {
		return Application{}, apperr.InvalidState(string(app.Status), "only completed adoptions can be reconciled")
	}
	if err := s.completeAdoption(ctx, app); err != nil {
		return app, err
	}
	s.log.Info("adoption completion reconciled", map[string]any{"application_id": app.ID})
	return app, nil
}

// -------------------------
// helpers
// -------------------------

// authorize resuelve el dueño del refugio solo cuando el actor es shelter;
// para el resto de los roles la tabla no lo usa.
func (s *Service) authorize(ctx context.Context, op Operation, actor auth.Actor, app *Application, shelterID string) error {
	owner := ""
	if actor.Role == auth.RoleShelter && shelterID != "" {
		o, err := s.shelters.OwnerOf(ctx, shelterID)
		if err != nil {
			return err
		}
		owner = o
	}
	return Authorize(op, actor, app, owner)
}

// checkAdoptable corta el paso a adoption-completed cuando la mascota ya fue
// adoptada por otra solicitud (o dejó de estar disponible).
func (s *Service) checkAdoptable(ctx context.Context, app Application) error {
	pet, err := s.pets.GetByID(ctx, app.PetID)
	if err != nil {
		return err
	}
	switch {
	case pet.AdoptionStatus == pets.StatusAvailable, pet.AdoptionStatus == pets.StatusPending:
		return nil
	case pet.AdoptedThrough(app.ID):
		return nil
	}
	return apperr.Conflict("pet_id", "pet %s is %s and cannot be adopted through application %s", pet.ID, pet.AdoptionStatus, app.ID)
}

// moveTo muta estado, held_from y timeline juntos; se persisten en una sola escritura.
func moveTo(app *Application, to Status, now time.Time, notes, actorID string) error {
	if !CanTransition(app.Status, to, app.HeldFrom) {
		return apperr.InvalidTransition(string(app.Status), string(to))
	}
	switch {
	case to == StatusOnHold:
		app.HeldFrom = app.Status
	case app.Status == StatusOnHold:
		app.HeldFrom = ""
	}
	app.Status = to
	app.appendTimeline(to, now, notes, actorID)
	app.UpdatedAt = now
	return nil
}

func (s *Service) load(ctx context.Context, id string) (Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Application{}, apperr.Validation("application_id", "required")
	}
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Application{}, translate(err, id)
	}
	return app, nil
}

func (s *Service) save(ctx context.Context, app *Application) error {
	if err := s.repo.Update(ctx, *app); err != nil {
		return translate(err, app.ID)
	}
	app.Version++
	return nil
}

func (s *Service) applySideEffects(ctx context.Context, app Application) error {
	switch app.Status {
	case StatusAdoptionCompleted:
		return s.completeAdoption(ctx, app)
	case StatusAdoptionReturned:
		at := app.UpdatedAt
		return s.withRetry(ctx, app, "mark pet returned", func() error {
			_, err := s.pets.MarkReturned(ctx, app.PetID, app.ID, at)
			return err
		})
	case StatusRejected, StatusWithdrawn:
		if app.PetHeld {
			return s.withRetry(ctx, app, "release pet", func() error {
				return s.releasePet(ctx, app)
			})
		}
	}
	return nil
}

func (s *Service) completeAdoption(ctx context.Context, app Application) error {
	at := completedAt(app)
	return s.withRetry(ctx, app, "complete adoption", func() error {
		if _, err := s.pets.MarkAdopted(ctx, app.PetID, app.ID, app.ApplicantID, at); err != nil {
			return err
		}
		return s.shelters.RecordAdoption(ctx, app.ShelterID, app.ID)
	})
}

// releasePet devuelve la mascota a available salvo que otra solicitud activa la siga reteniendo.
func (s *Service) releasePet(ctx context.Context, app Application) error {
	others, err := s.repo.ListByPet(ctx, app.PetID)
	if err != nil {
		return err
	}
	for _, o := range others {
		if o.ID != app.ID && IsActive(o.Status) {
			return nil
		}
	}
	_, err = s.pets.Release(ctx, app.PetID)
	return err
}

func completedAt(app Application) time.Time {
	for i := len(app.Timeline) - 1; i >= 0; i-- {
		if app.Timeline[i].Status == StatusAdoptionCompleted {
			return app.Timeline[i].Date
		}
	}
	return app.UpdatedAt
}

// withRetry reintenta conflictos de versión y errores sin tipo. Agotados los
// intentos devuelve PartialFailure: la solicitud ya quedó guardada.
func (s *Service) withRetry(ctx context.Context, app Application, step string, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt >= s.retries || !retryable(err) {
			break
		}
		s.log.Warn("adoption side effect failed, retrying", map[string]any{
			"application_id": app.ID,
			"step":           step,
			"attempt":        attempt,
			"error":          err,
		})
		if werr := sleepCtx(ctx, time.Duration(attempt)*s.backoff); werr != nil {
			err = werr
			break
		}
	}

	s.log.Error("adoption side effect failed", map[string]any{
		"application_id": app.ID,
		"pet_id":         app.PetID,
		"status":         string(app.Status),
		"step":           step,
		"error":          err,
	})
	s.notify(ctx, notify.Notification{
		Kind:      notify.KindAdoptionPartial,
		Recipient: app.ShelterID,
		Subject:   fmt.Sprintf("Application %s needs reconciliation", app.ID),
		EntityID:  app.ID,
		Attributes: map[string]string{
			"status": string(app.Status),
			"step":   step,
		},
		At: s.now(),
	})
	return apperr.PartialFailure(err, "application %s is %s but %s failed", app.ID, app.Status, step)
}

// retryable: solo los errores transitorios. Un Conflict de dominio (mascota
// adoptada por otra solicitud) no cambia reintentando.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, storage.ErrVersionConflict) {
		return true
	}
	return apperr.KindOf(err) == ""
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Service) afterTransition(ctx context.Context, from Status, app Application, actorID string) {
	metrics.AdoptionTransitions.WithLabelValues(string(from), string(app.Status)).Inc()
	s.log.Info("adoption status changed", map[string]any{
		"application_id": app.ID,
		"from":           string(from),
		"to":             string(app.Status),
		"actor":          actorID,
	})
	s.notifyStatus(ctx, app, from)
}

func (s *Service) notifyStatus(ctx context.Context, app Application, from Status) {
	attrs := map[string]string{"to": string(app.Status), "pet_id": app.PetID}
	if from != "" {
		attrs["from"] = string(from)
	}
	s.notify(ctx, notify.Notification{
		Kind:       notify.KindAdoptionStatusChanged,
		Recipient:  app.ApplicantID,
		Subject:    fmt.Sprintf("Your adoption application is now %s", app.Status),
		EntityID:   app.ID,
		Attributes: attrs,
		At:         s.now(),
	})
}

// notify es best-effort: un fallo se loguea y no afecta el cambio ya persistido.
func (s *Service) notify(ctx context.Context, n notify.Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Warn("notification failed", map[string]any{
			"kind":      string(n.Kind),
			"entity_id": n.EntityID,
			"error":     err,
		})
	}
}

func (s *Service) observe(op string, errp *error) {
	if errp == nil || *errp == nil {
		return
	}
	kind := string(apperr.KindOf(*errp))
	if kind == "" {
		kind = "internal"
	}
	metrics.AdoptionFailures.WithLabelValues(op, kind).Inc()
}

func containsStatus(list []Status, s Status) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func translate(err error, id string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperr.NotFound("application_id", "application %s not found", id)
	case errors.Is(err, storage.ErrVersionConflict):
		return apperr.Conflict("application_id", "application %s was modified concurrently", id).Wrap(storage.ErrVersionConflict)
	case errors.Is(err, storage.ErrAlreadyExists):
		return apperr.Conflict("pet_id", "applicant already has an active application for this pet")
	default:
		return err
	}
}
