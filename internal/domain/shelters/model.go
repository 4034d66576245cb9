package shelters

import "time"

// Stats son contadores del refugio que mantiene el motor de adopciones.
type Stats struct {
	TotalAdoptions int
	// Solicitudes ya contadas; hace idempotente RecordAdoption.
	CountedApplications []string
}

type Shelter struct {
	ID          string
	OwnerUserID string

	Name    string
	Email   string
	Phone   string
	City    string
	Website string

	Stats Stats

	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

func (s Shelter) hasCounted(applicationID string) bool {
	for _, id := range s.Stats.CountedApplications {
		if id == applicationID {
			return true
		}
	}
	return false
}
