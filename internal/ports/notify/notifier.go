package notify

import (
	"context"
	"time"
)

type Kind string

const (
	KindAdoptionStatusChanged Kind = "adoption.status_changed"
	KindAdoptionPartial       Kind = "adoption.partial_failure"
	KindActivityPromoted      Kind = "activity.promoted"
)

// Notification es lo que los motores emiten después de persistir un cambio.
type Notification struct {
	Kind       Kind              `json:"kind"`
	Recipient  string            `json:"recipient"` // user id
	Subject    string            `json:"subject"`
	EntityID   string            `json:"entity_id"`
	Attributes map[string]string `json:"attributes,omitempty"`
	At         time.Time         `json:"at"`
}

// Notifier entrega notificaciones (log, webhook, ...). Es best-effort: el motor
// no revierte un cambio persistido si la notificación falla.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
