package adoptions

import "context"

type Repository interface {
	// Create devuelve storage.ErrAlreadyExists si el solicitante ya tiene una
	// solicitud activa para la mascota.
	Create(ctx context.Context, a Application) error
	// Update persiste si a.Version coincide con la guardada; si no, storage.ErrVersionConflict.
	Update(ctx context.Context, a Application) error
	GetByID(ctx context.Context, id string) (Application, error)
	ListByPet(ctx context.Context, petID string) ([]Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]Application, error)
}
