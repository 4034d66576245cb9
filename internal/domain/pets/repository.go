package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	// Update persiste si p.Version coincide con la versión guardada; si no, ErrVersionConflict.
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	List(ctx context.Context, filter ListFilter) ([]Pet, error)
}

type ListFilter struct {
	ShelterID string
	Species   Species
	Status    AdoptionStatus
	Limit     int
}
