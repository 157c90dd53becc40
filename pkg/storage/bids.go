package storage

import (
	"context"

	"github.com/chris/property-settlement/pkg/models"
)

// BidStore defines the interface for reading and writing bids.
type BidStore interface {
	// GetBid retrieves a bid by its ID.
	GetBid(ctx context.Context, bidID string) (*models.Bid, error)

	// ListBids retrieves every bid placed on a listing, oldest first.
	ListBids(ctx context.Context, listingID string) ([]models.Bid, error)

	// GetActiveBids retrieves the bids on a listing whose status is active.
	GetActiveBids(ctx context.Context, listingID string) ([]models.Bid, error)

	// AcceptBid inserts bid as active and flips every superseded bid to outbid.
	// The write is guarded by the listing version the caller read, so two bids
	// racing on the same listing cannot both commit. It returns ErrConditionFailed
	// when the caller lost the race and must re-read.
	AcceptBid(ctx context.Context, listing *models.Listing, bid *models.Bid, superseded []models.Bid) error

	// WithdrawBid flips an active bid to cancelled. The write is guarded by the listing
	// version and by the listing having no settlement claim, so a bid cannot be
	// withdrawn while a payment is settling it.
	WithdrawBid(ctx context.Context, listing *models.Listing, bid *models.Bid) error
}
