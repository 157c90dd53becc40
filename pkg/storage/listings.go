package storage

import (
	"context"
	"time"

	"github.com/chris/property-settlement/pkg/models"
)

// ListingReader defines the interface for reading listing data.
type ListingReader interface {
	// GetListing retrieves a listing by its ID.
	GetListing(ctx context.Context, listingID string) (*models.Listing, error)

	// GetActiveListingID returns the ID of the listing currently claiming the property,
	// or ErrNotFound if the property is free.
	GetActiveListingID(ctx context.Context, propertyID string) (string, error)

	// ListEndedAuctions retrieves active auctions whose end time is before the cutoff.
	ListEndedAuctions(ctx context.Context, before time.Time) ([]models.Listing, error)
}

// ListingManager defines the conditional writes that move a listing through its lifecycle.
type ListingManager interface {
	// CreateListing inserts the listing and claims its property in one atomic write.
	// It returns ErrAlreadyExists if another listing holds the property.
	CreateListing(ctx context.Context, listing *models.Listing) error

	// FinalizeListing persists listing.Status (a terminal status) and releases the property
	// claim. The write is guarded by the version the caller read and by status = active.
	// If activeBidID is set, that bid is flipped to cancelled in the same write.
	// It returns ErrConditionFailed if the listing changed since it was read.
	FinalizeListing(ctx context.Context, listing *models.Listing, activeBidID string) error

	// ClaimSettlement records paymentID as the payment settling the listing, guarded by
	// version and by the absence of another claim.
	ClaimSettlement(ctx context.Context, listing *models.Listing, paymentID string) error

	// ReleaseSettlement clears the claim held by paymentID. Releasing a claim that is not
	// held by paymentID returns ErrConditionFailed.
	ReleaseSettlement(ctx context.Context, listingID, paymentID string) error
}

// ListingStore combines the reader and manager interfaces.
type ListingStore interface {
	ListingReader
	ListingManager
}
