package activities

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a Activity) error
	// Update persiste si a.Version coincide con la guardada; si no, storage.ErrVersionConflict.
	Update(ctx context.Context, a Activity) error
	GetByID(ctx context.Context, id string) (Activity, error)
	// ListUpcoming devuelve actividades con StartTime posterior a from, ordenadas por inicio.
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]Activity, error)
}
