package storage

import (
	"context"
	"time"

	"github.com/chris/property-settlement/pkg/models"
)

// EscrowStore defines the interface for reading and writing escrows.
type EscrowStore interface {
	// CreateEscrow inserts a new escrow. It returns ErrAlreadyExists if the ID is taken.
	CreateEscrow(ctx context.Context, escrow *models.Escrow) error

	// GetEscrow retrieves an escrow by its ID.
	GetEscrow(ctx context.Context, escrowID string) (*models.Escrow, error)

	// UpdateEscrow persists the escrow's mutable fields guarded by its status being one of from.
	UpdateEscrow(ctx context.Context, escrow *models.Escrow, from ...models.EscrowStatus) error

	// ListEscrowsByStatus retrieves escrows in status that were last updated before the cutoff.
	ListEscrowsByStatus(ctx context.Context, status models.EscrowStatus, updatedBefore time.Time) ([]models.Escrow, error)
}
