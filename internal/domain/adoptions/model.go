package adoptions

import "time"

// Status de una solicitud de adopción.
type Status string

const (
	StatusSubmitted          Status = "submitted"
	StatusUnderReview        Status = "under-review"
	StatusApproved           Status = "approved"
	StatusRejected           Status = "rejected"
	StatusOnHold             Status = "on-hold"
	StatusMeetScheduled      Status = "meet-scheduled"
	StatusMeetCompleted      Status = "meet-completed"
	StatusHomeVisitScheduled Status = "home-visit-scheduled"
	StatusHomeVisitCompleted Status = "home-visit-completed"
	StatusAdoptionApproved   Status = "adoption-approved"
	StatusAdoptionCompleted  Status = "adoption-completed"
	StatusAdoptionReturned   Status = "adoption-returned"
	StatusWithdrawn          Status = "withdrawn"
)

type VisitType string

const (
	VisitMeetAndGreet VisitType = "meet-and-greet"
	VisitHomeVisit    VisitType = "home-visit"
	VisitFollowUp     VisitType = "follow-up"
)

type VisitStatus string

const (
	VisitScheduled   VisitStatus = "scheduled"
	VisitCompleted   VisitStatus = "completed"
	VisitCancelled   VisitStatus = "cancelled"
	VisitNoShow      VisitStatus = "no-show"
	VisitRescheduled VisitStatus = "rescheduled"
)

type VisitOutcome string

const (
	OutcomeApproved      VisitOutcome = "approved"
	OutcomeRejected      VisitOutcome = "rejected"
	OutcomeNeedsFollowUp VisitOutcome = "needs-follow-up"
)

type Visit struct {
	ID            string       `json:"id"`
	Type          VisitType    `json:"type"`
	ScheduledDate time.Time    `json:"scheduled_date"`
	Status        VisitStatus  `json:"status"`
	Outcome       VisitOutcome `json:"outcome,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	ScheduledBy   string       `json:"scheduled_by,omitempty"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
}

// TimelineEntry es una entrada del log de auditoría. Solo se agrega, nunca se edita.
type TimelineEntry struct {
	Status Status    `json:"status"`
	Date   time.Time `json:"date"`
	Notes  string    `json:"notes,omitempty"`
	Actor  string    `json:"actor"`
}

type PersonalInfo struct {
	FullName   string `json:"full_name" validate:"required,max=120"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	Occupation string `json:"occupation,omitempty"`
}

type HousingInfo struct {
	Type             string `json:"type,omitempty"`      // house, apartment, ...
	Ownership        string `json:"ownership,omitempty"` // own, rent
	HasYard          bool   `json:"has_yard"`
	LandlordApproval bool   `json:"landlord_approval"`
	HouseholdSize    int    `json:"household_size,omitempty"`
	OtherPets        string `json:"other_pets,omitempty"`
}

type Reference struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
}

// Application es una solicitud de un usuario por una mascota.
type Application struct {
	ID          string `json:"id"`
	PetID       string `json:"pet_id"`
	ApplicantID string `json:"applicant_id"`
	ShelterID   string `json:"shelter_id"`

	Status Status `json:"status"`
	// HeldFrom es el estado desde el que se pasó a on-hold; vacío fuera de on-hold.
	HeldFrom Status `json:"held_from,omitempty"`
	// PetHeld indica que esta solicitud pasó la mascota a pending.
	PetHeld bool `json:"pet_held"`

	PersonalInfo PersonalInfo `json:"personal_info"`
	HousingInfo  HousingInfo  `json:"housing_info"`
	References   []Reference  `json:"references"`

	Visits   []Visit         `json:"visits"`
	Timeline []TimelineEntry `json:"timeline"`
	Fees     Fees            `json:"fees"`

	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Version para escritura optimista; el repo la incrementa en cada Update.
	Version int `json:"-"`
}

func (a *Application) visit(id string) *Visit {
	for i := range a.Visits {
		if a.Visits[i].ID == id {
			return &a.Visits[i]
		}
	}
	return nil
}

// Clone copia profunda; los repos devuelven valores, nunca referencias vivas.
func (a Application) Clone() Application {
	out := a
	out.References = append([]Reference(nil), a.References...)
	out.Visits = make([]Visit, len(a.Visits))
	for i, v := range a.Visits {
		if v.CompletedAt != nil {
			t := *v.CompletedAt
			v.CompletedAt = &t
		}
		out.Visits[i] = v
	}
	out.Timeline = append([]TimelineEntry(nil), a.Timeline...)
	out.Fees.AdditionalFees = append([]Fee(nil), a.Fees.AdditionalFees...)
	out.Fees.Payments = append([]Payment(nil), a.Fees.Payments...)
	return out
}
