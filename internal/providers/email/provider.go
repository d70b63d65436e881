package email

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
)

var (
	ErrDeliveryFailed = errors.New("email_delivery_failed")
	ErrInvalidConfig  = errors.New("email_invalid_config")
)

// Provider sends one templated email and returns the provider's notification id.
type Provider interface {
	SendTemplate(ctx context.Context, recipient string, templateID string, personalisation map[string]string) (string, error)
}

// NoOpProvider accepts every email without sending it.
type NoOpProvider struct{}

func (p *NoOpProvider) SendTemplate(ctx context.Context, recipient string, templateID string, personalisation map[string]string) (string, error) {
	return "noop-" + ulid.Make().String(), nil
}
