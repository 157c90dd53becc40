package storage

import (
	"context"
	"time"

	"github.com/chris/property-settlement/pkg/models"
)

// PaymentStore defines the interface for reading and writing payments.
type PaymentStore interface {
	// CreatePayment inserts a new payment.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// GetPayment retrieves a payment by its ID.
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)

	// UpdatePayment persists the payment's mutable fields guarded by status = from and
	// by its escrow link: a payment without an escrow ID only updates while no escrow is
	// linked, and a payment with one only updates while that same escrow is linked.
	UpdatePayment(ctx context.Context, payment *models.Payment, from models.PaymentStatus) error

	// ListPaymentsByStatus retrieves payments in status that were last updated before the cutoff.
	ListPaymentsByStatus(ctx context.Context, status models.PaymentStatus, updatedBefore time.Time) ([]models.Payment, error)

	// FindPaymentByExternalRef retrieves the payment holding a settlement reference.
	// It returns ErrNotFound when no payment holds it.
	FindPaymentByExternalRef(ctx context.Context, ref string) (*models.Payment, error)
}
