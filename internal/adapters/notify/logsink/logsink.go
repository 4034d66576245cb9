// Package logsink entrega notificaciones escribiéndolas en el logger estructurado.
// Es el notifier por defecto cuando no hay webhook configurado.
package logsink

import (
	"context"

	"pet-adoption-hub/internal/platform/logger"
	"pet-adoption-hub/internal/ports/notify"
)

type Notifier struct {
	log logger.Logger
}

func New(log logger.Logger) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Notifier{log: log.With(map[string]any{"component": "notify"})}
}

func (n *Notifier) Notify(ctx context.Context, msg notify.Notification) error {
	fields := map[string]any{
		"kind":      string(msg.Kind),
		"recipient": msg.Recipient,
		"entity_id": msg.EntityID,
		"subject":   msg.Subject,
	}
	for k, v := range msg.Attributes {
		fields["attr_"+k] = v
	}
	n.log.Info("notification", fields)
	return nil
}
