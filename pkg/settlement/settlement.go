// Package settlement verifies the off-platform movement of funds before a payment
// is allowed to enter processing.
package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/property-settlement/pkg/models"
)

var (
	// ErrRejected is returned when the evidence proves the funds did not move.
	// The payment should be marked failed.
	ErrRejected = errors.New("settlement rejected")

	// ErrNotConfirmed is returned when the funds have not settled yet. The caller
	// may submit the same evidence again later.
	ErrNotConfirmed = errors.New("settlement not confirmed")
)

// Backend verifies the evidence for one payment method and returns the external
// reference recorded on the payment.
type Backend interface {
	Process(ctx context.Context, payment *models.Payment, evidence string) (string, error)
}

// Router dispatches to the backend registered for the payment's type.
type Router struct {
	backends map[models.PaymentType]Backend
}

// NewRouter creates a Router from a type -> backend map.
func NewRouter(backends map[models.PaymentType]Backend) *Router {
	return &Router{backends: backends}
}

var _ Backend = (*Router)(nil)

func (r *Router) Process(ctx context.Context, payment *models.Payment, evidence string) (string, error) {
	backend, ok := r.backends[payment.Type]
	if !ok {
		return "", fmt.Errorf("no settlement backend for payment type %q", payment.Type)
	}
	return backend.Process(ctx, payment, evidence)
}

// FiatBackend accepts the gateway's reference as-is. Card and wire gateways confirm
// out of band, so the reference is the only evidence the platform receives.
type FiatBackend struct{}

func (FiatBackend) Process(_ context.Context, payment *models.Payment, evidence string) (string, error) {
	if evidence == "" {
		return "", fmt.Errorf("payment %s: gateway reference required: %w", payment.ID, ErrRejected)
	}
	return evidence, nil
}
