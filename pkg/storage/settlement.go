package storage

import (
	"context"
	"time"

	"github.com/chris/property-settlement/pkg/models"
)

// Settlement carries the records closed together when an escrow is released.
type Settlement struct {
	EscrowID string
	Payment  *models.Payment
	Listing  *models.Listing
	// Bid is the winning bid for auction sales and nil for fixed-price sales.
	Bid *models.Bid
	At  time.Time
}

// SettlementStore defines the highly-privileged interface for settling a sale.
// This operation involves atomic writes across multiple tables (Payments, Bids, Listings).
// It should only be exposed to the component responsible for final settlement.
type SettlementStore interface {
	// SettleSale atomically marks the payment completed, the bid won and the listing sold,
	// and releases the property claim. Every write is status-guarded; if any guard fails
	// nothing is applied and ErrConditionFailed is returned.
	SettleSale(ctx context.Context, settlement Settlement) error
}
