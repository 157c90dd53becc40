// Package bidding accepts bids on auction listings.
//
// Acceptance of a bid is linearised per listing by the listing version: the new bid,
// the version bump and the outbid flips commit together or not at all, and the loser
// of a race re-validates against the new high bid before trying again.
package bidding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/notify"
	"github.com/chris/property-settlement/pkg/storage"
	"github.com/google/uuid"
)

// Store is the slice of the ledger the engine reads and writes.
type Store interface {
	GetListing(ctx context.Context, listingID string) (*models.Listing, error)
	storage.BidStore
}

// Refresher applies lazy expiry to a listing.
type Refresher interface {
	Refresh(ctx context.Context, listing *models.Listing) (*models.Listing, error)
}

// Options tunes the engine. Zero values select the defaults.
type Options struct {
	MaxAttempts int
	Now         func() time.Time
}

// Engine is the Bid Engine.
type Engine struct {
	store       Store
	listings    Refresher
	notifier    notify.Notifier
	logger      *slog.Logger
	maxAttempts int
	now         func() time.Time
}

// NewEngine creates a new Engine.
func NewEngine(store Store, listings Refresher, notifier notify.Notifier, logger *slog.Logger, opts Options) *Engine {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 5
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{
		store:       store,
		listings:    listings,
		notifier:    notifier,
		logger:      logger.With("component", "bidding"),
		maxAttempts: opts.MaxAttempts,
		now:         opts.Now,
	}
}

func (e *Engine) loadListing(ctx context.Context, listingID string) (*models.Listing, error) {
	listing, err := e.store.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, models.NotFoundError("listing", listingID)
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return e.listings.Refresh(ctx, listing)
}

// PlaceBid places a bid that must strictly exceed both the listing price and the
// current high bid. Equal amounts are rejected.
func (e *Engine) PlaceBid(ctx context.Context, listingID, bidderID string, amount models.Money) (*models.Bid, error) {
	if bidderID == "" {
		return nil, models.ValidationError("bid", "bidder_id is required")
	}
	if !amount.IsPositive() {
		return nil, models.ValidationError("bid", "amount must be positive")
	}
	amount.Currency = models.NormalizeCurrency(amount.Currency)

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		listing, err := e.loadListing(ctx, listingID)
		if err != nil {
			return nil, err
		}
		if listing.Status != models.ListingActive {
			notFound := models.NotFoundError("listing", listingID)
			notFound.Status = string(listing.Status)
			notFound.Message = "no active listing"
			return nil, notFound
		}
		if listing.Kind != models.Auction {
			return nil, models.InvalidStateError("listing", listing.ID, string(listing.Status), "listing is not an auction")
		}
		if listing.Ended(e.now()) {
			return nil, models.InvalidStateError("listing", listing.ID, string(listing.Status), "auction has ended")
		}
		if listing.HasSettlementClaim() {
			return nil, models.InvalidStateError("listing", listing.ID, string(listing.Status), "listing is being settled")
		}
		if bidderID == listing.SellerID {
			return nil, models.ValidationError("bid", "seller cannot bid on own listing")
		}
		if !amount.SameCurrency(listing.Price) {
			return nil, models.ValidationError("bid", "currency %s does not match listing currency %s", amount.Currency, listing.Price.Currency)
		}

		active, err := e.store.GetActiveBids(ctx, listing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get active bids: %w", err)
		}
		floor := listing.Price
		for _, b := range active {
			if b.Amount.GreaterThan(floor) {
				floor = b.Amount
			}
		}
		if !amount.GreaterThan(floor) {
			return nil, models.ValidationError("bid", "amount %s must exceed %s", amount, floor)
		}

		now := e.now()
		bid := &models.Bid{
			ID:        uuid.New().String(),
			ListingID: listing.ID,
			BidderID:  bidderID,
			Amount:    amount,
			Status:    models.BidActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err = e.store.AcceptBid(ctx, listing, bid, active)
		if err == nil {
			e.logger.Info("bid accepted", "listing_id", listing.ID, "bid_id", bid.ID, "amount", amount.String(), "attempt", attempt)
			e.notifyOutbid(ctx, bid, active)
			return bid, nil
		}
		if !errors.Is(err, storage.ErrConditionFailed) {
			return nil, fmt.Errorf("failed to accept bid: %w", err)
		}
		e.logger.Debug("bid lost race, retrying", "listing_id", listing.ID, "attempt", attempt)
	}
	return nil, models.ConflictError("bid", "", "listing %s is under heavy bidding, try again", listingID)
}

func (e *Engine) notifyOutbid(ctx context.Context, winner *models.Bid, superseded []models.Bid) {
	for _, prev := range superseded {
		if prev.BidderID == winner.BidderID {
			continue
		}
		err := e.notifier.Notify(ctx, notify.Notification{
			RecipientID: prev.BidderID,
			EventType:   notify.EventBidOutbid,
			OccurredAt:  winner.CreatedAt,
			Payload: map[string]interface{}{
				"listing_id": winner.ListingID,
				"bid_id":     prev.ID,
				"new_amount": winner.Amount.Amount.String(),
				"currency":   winner.Amount.Currency,
			},
		})
		if err != nil {
			e.logger.Error("failed to send outbid notification", "bid_id", prev.ID, "error", err)
		}
	}
}

// CancelBid withdraws the bidder's own active bid. Bids cannot be withdrawn while a
// payment is settling the listing.
func (e *Engine) CancelBid(ctx context.Context, bidID, actor string) (*models.Bid, error) {
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		bid, err := e.GetBid(ctx, bidID)
		if err != nil {
			return nil, err
		}
		if actor == "" || actor != bid.BidderID {
			return nil, models.AuthorizationError("bid", bidID, actor)
		}
		if bid.Status != models.BidActive {
			return nil, models.InvalidStateError("bid", bid.ID, string(bid.Status), "only active bids can be cancelled")
		}
		listing, err := e.store.GetListing(ctx, bid.ListingID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, models.NotFoundError("listing", bid.ListingID)
			}
			return nil, fmt.Errorf("failed to get listing: %w", err)
		}
		if listing.HasSettlementClaim() {
			return nil, models.InvalidStateError("bid", bid.ID, string(bid.Status), "listing is being settled")
		}

		err = e.store.WithdrawBid(ctx, listing, bid)
		if err == nil {
			e.logger.Info("bid cancelled", "bid_id", bid.ID, "listing_id", bid.ListingID)
			return bid, nil
		}
		if !errors.Is(err, storage.ErrConditionFailed) {
			return nil, fmt.Errorf("failed to cancel bid: %w", err)
		}
	}
	return nil, models.ConflictError("bid", bidID, "listing kept changing, try again")
}

// GetBid retrieves a bid by its ID.
func (e *Engine) GetBid(ctx context.Context, bidID string) (*models.Bid, error) {
	bid, err := e.store.GetBid(ctx, bidID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, models.NotFoundError("bid", bidID)
		}
		return nil, fmt.Errorf("failed to get bid: %w", err)
	}
	return bid, nil
}

// ListBids returns every bid on a listing, oldest first.
func (e *Engine) ListBids(ctx context.Context, listingID string) ([]models.Bid, error) {
	if _, err := e.loadListing(ctx, listingID); err != nil {
		return nil, err
	}
	bids, err := e.store.ListBids(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	return bids, nil
}

// HighestBid returns the active bid on a listing, or nil if there is none.
func (e *Engine) HighestBid(ctx context.Context, listingID string) (*models.Bid, error) {
	active, err := e.store.GetActiveBids(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active bids: %w", err)
	}
	var top *models.Bid
	for i := range active {
		if top == nil || active[i].Amount.GreaterThan(top.Amount) {
			top = &active[i]
		}
	}
	return top, nil
}
