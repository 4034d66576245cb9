// Package webhook entrega notificaciones como POST JSON a una URL configurada.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pet-adoption-hub/internal/platform/httpclient"
	"pet-adoption-hub/internal/ports/notify"
)

type Notifier struct {
	client *httpclient.Client
	url    string
	// Retries extra para respuestas 5xx/429.
	retries int
}

func New(url string, timeout time.Duration) (*Notifier, error) {
	if url == "" {
		return nil, errors.New("webhook: empty url")
	}
	c, err := httpclient.NewWithBaseURL(url, timeout)
	if err != nil {
		return nil, err
	}
	return &Notifier{client: c, url: c.BaseURL, retries: 1}, nil
}

func (n *Notifier) Notify(ctx context.Context, msg notify.Notification) error {
	headers := map[string]string{"X-Notification-Kind": string(msg.Kind)}

	var err error
	for attempt := 0; attempt <= n.retries; attempt++ {
		err = n.client.DoJSON(ctx, http.MethodPost, n.url, headers, msg, nil)
		if err == nil {
			return nil
		}
		var httpErr *httpclient.HTTPError
		if !errors.As(err, &httpErr) || !httpErr.Retryable() {
			break
		}
	}
	return fmt.Errorf("webhook notify %s: %w", msg.Kind, err)
}
