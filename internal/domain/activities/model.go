package activities

import "time"

type Kind string

const (
	KindAdoptionEvent Kind = "adoption-event"
	KindVolunteering  Kind = "volunteering"
	KindTraining      Kind = "training"
	KindFundraiser    Kind = "fundraiser"
	KindOther         Kind = "other"
)

type ParticipantStatus string

const (
	ParticipantRegistered ParticipantStatus = "registered"
	ParticipantAttended   ParticipantStatus = "attended"
	ParticipantNoShow     ParticipantStatus = "no-show"
	ParticipantCancelled  ParticipantStatus = "cancelled"
	ParticipantWaitlisted ParticipantStatus = "waitlisted"
)

type Participant struct {
	UserID       string            `json:"user_id"`
	Status       ParticipantStatus `json:"status"`
	RegisteredAt time.Time         `json:"registered_at"`
	Notes        string            `json:"notes,omitempty"`
	PromotedAt   *time.Time        `json:"promoted_at,omitempty"`
	CancelledAt  *time.Time        `json:"cancelled_at,omitempty"`
}

// Capacity: Current y Waitlist son contadores cacheados; solo los mueven
// Register/Unregister. CountCapacity los recalcula desde los participantes.
type Capacity struct {
	Max      int `json:"max"`
	Current  int `json:"current"`
	Waitlist int `json:"waitlist"`
}

type Activity struct {
	ID          string    `json:"id"`
	OrganizerID string    `json:"organizer_id"`
	ShelterID   string    `json:"shelter_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Kind        Kind      `json:"kind"`
	Location    string    `json:"location,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`

	Capacity     Capacity      `json:"capacity"`
	Participants []Participant `json:"participants"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"-"`
}

// Clone copia profunda para que los repos no compartan slices.
func (a Activity) Clone() Activity {
	out := a
	out.Participants = make([]Participant, len(a.Participants))
	for i, p := range a.Participants {
		if p.PromotedAt != nil {
			t := *p.PromotedAt
			p.PromotedAt = &t
		}
		if p.CancelledAt != nil {
			t := *p.CancelledAt
			p.CancelledAt = &t
		}
		out.Participants[i] = p
	}
	return out
}

// activeRegistration devuelve el índice de la inscripción no cancelada del usuario, o -1.
func (a *Activity) activeRegistration(userID string) int {
	for i := range a.Participants {
		p := a.Participants[i]
		if p.UserID == userID && p.Status != ParticipantCancelled {
			return i
		}
	}
	return -1
}

// CountCapacity recalcula current/waitlist desde los participantes.
func CountCapacity(a Activity) Capacity {
	c := Capacity{Max: a.Capacity.Max}
	for _, p := range a.Participants {
		switch p.Status {
		case ParticipantRegistered:
			c.Current++
		case ParticipantWaitlisted:
			c.Waitlist++
		}
	}
	return c
}
