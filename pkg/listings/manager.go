// Package listings manages a listing from creation until it is sold, cancelled or expired.
package listings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/property-settlement/pkg/directory"
	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/storage"
	"github.com/google/uuid"
)

// Store is the slice of the ledger the manager reads and writes.
type Store interface {
	storage.ListingStore
	GetActiveBids(ctx context.Context, listingID string) ([]models.Bid, error)
	GetBid(ctx context.Context, bidID string) (*models.Bid, error)
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
	GetEscrow(ctx context.Context, escrowID string) (*models.Escrow, error)
}

const (
	// DefaultSettlementGrace is used when Options.SettlementGrace is not positive.
	DefaultSettlementGrace = 72 * time.Hour
	// MaxAuctionDuration bounds how long an auction may run.
	MaxAuctionDuration = 365 * 24 * time.Hour
)

// Options tunes the manager. Zero values select the defaults.
type Options struct {
	// SettlementGrace keeps an ended auction with a standing bid open so the winner can pay.
	SettlementGrace time.Duration
	// MaxAttempts bounds retries after losing a conditional write to a concurrent bid.
	MaxAttempts int
	Now         func() time.Time
}

// Manager is the Listing Lifecycle Manager.
type Manager struct {
	store       Store
	dir         directory.Directory
	logger      *slog.Logger
	grace       time.Duration
	maxAttempts int
	now         func() time.Time
}

// NewManager creates a new Manager.
func NewManager(store Store, dir directory.Directory, logger *slog.Logger, opts Options) *Manager {
	if opts.SettlementGrace <= 0 {
		opts.SettlementGrace = DefaultSettlementGrace
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 5
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Manager{
		store:       store,
		dir:         dir,
		logger:      logger.With("component", "listings"),
		grace:       opts.SettlementGrace,
		maxAttempts: opts.MaxAttempts,
		now:         opts.Now,
	}
}

// CreateInput describes a new listing.
type CreateInput struct {
	PropertyID string
	SellerID   string
	Kind       models.ListingKind
	Price      models.Money
	// Duration is required for auctions and rejected for fixed-price listings.
	Duration *time.Duration
}

func (in CreateInput) validate() error {
	if in.PropertyID == "" {
		return models.ValidationError("listing", "property_id is required")
	}
	if in.SellerID == "" {
		return models.ValidationError("listing", "seller_id is required")
	}
	if !in.Kind.Valid() {
		return models.ValidationError("listing", "unknown kind %q", in.Kind)
	}
	if !in.Price.IsPositive() {
		return models.ValidationError("listing", "price must be positive")
	}
	if models.NormalizeCurrency(in.Price.Currency) == "" {
		return models.ValidationError("listing", "currency is required")
	}
	switch in.Kind {
	case models.Auction:
		if in.Duration == nil || *in.Duration <= 0 {
			return models.ValidationError("listing", "auction requires a positive duration")
		}
		if *in.Duration > MaxAuctionDuration {
			return models.ValidationError("listing", "auction duration must not exceed %s", MaxAuctionDuration)
		}
	case models.FixedPrice:
		if in.Duration != nil {
			return models.ValidationError("listing", "fixed-price listings do not take a duration")
		}
	}
	return nil
}

// Create creates an active listing. At most one active listing may exist per property.
func (m *Manager) Create(ctx context.Context, in CreateInput) (*models.Listing, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if ok, err := m.dir.PropertyExists(ctx, in.PropertyID); err != nil {
		return nil, fmt.Errorf("failed to look up property: %w", err)
	} else if !ok {
		return nil, models.NotFoundError("property", in.PropertyID)
	}
	if ok, err := m.dir.UserExists(ctx, in.SellerID); err != nil {
		return nil, fmt.Errorf("failed to look up seller: %w", err)
	} else if !ok {
		return nil, models.NotFoundError("user", in.SellerID)
	}

	// A property still claimed by an auction that has lapsed is freed first.
	if err := m.releaseLapsedClaim(ctx, in.PropertyID); err != nil {
		return nil, err
	}

	now := m.now()
	listing := &models.Listing{
		ID:         uuid.New().String(),
		PropertyID: in.PropertyID,
		SellerID:   in.SellerID,
		Kind:       in.Kind,
		Price:      models.Money{Amount: in.Price.Amount, Currency: models.NormalizeCurrency(in.Price.Currency)},
		Status:     models.ListingActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.Duration != nil {
		endsAt := now.Add(*in.Duration)
		listing.EndsAt = &endsAt
	}

	if err := m.store.CreateListing(ctx, listing); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, models.ConflictError("listing", "", "property %s already has an active listing", in.PropertyID)
		}
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	m.logger.Info("listing created", "listing_id", listing.ID, "property_id", listing.PropertyID, "kind", listing.Kind)
	return listing, nil
}

func (m *Manager) releaseLapsedClaim(ctx context.Context, propertyID string) error {
	existingID, err := m.store.GetActiveListingID(ctx, propertyID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check active listing: %w", err)
	}
	existing, err := m.store.GetListing(ctx, existingID)
	if err != nil {
		return fmt.Errorf("failed to get active listing: %w", err)
	}
	existing, err = m.Refresh(ctx, existing)
	if err != nil {
		return err
	}
	if existing.Status == models.ListingActive {
		return models.ConflictError("listing", existing.ID, "property %s already has an active listing", propertyID)
	}
	return nil
}

// Get returns the listing with lazy expiry applied.
func (m *Manager) Get(ctx context.Context, listingID string) (*models.Listing, error) {
	listing, err := m.load(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return m.Refresh(ctx, listing)
}

func (m *Manager) load(ctx context.Context, listingID string) (*models.Listing, error) {
	listing, err := m.store.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, models.NotFoundError("listing", listingID)
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return listing, nil
}

// Refresh persists the expiry of an auction that can no longer be settled and
// returns the listing as stored. Listings that are not due are returned unchanged.
func (m *Manager) Refresh(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	for attempt := 0; attempt < m.maxAttempts; attempt++ {
		now := m.now()
		if listing.Status != models.ListingActive || !listing.Ended(now) || listing.HasSettlementClaim() {
			return listing, nil
		}
		standing, err := m.standingBid(ctx, listing.ID)
		if err != nil {
			return nil, err
		}
		if !listing.ShouldExpire(now, m.grace, standing != nil) {
			return listing, nil
		}

		next := listing.Clone()
		if err := next.Transition(models.ListingExpired); err != nil {
			return nil, err
		}
		var bidID string
		if standing != nil {
			bidID = standing.ID
		}
		err = m.store.FinalizeListing(ctx, next, bidID)
		if err == nil {
			m.logger.Info("listing expired", "listing_id", next.ID)
			return next, nil
		}
		if !errors.Is(err, storage.ErrConditionFailed) {
			return nil, fmt.Errorf("failed to expire listing: %w", err)
		}
		if listing, err = m.load(ctx, listing.ID); err != nil {
			return nil, err
		}
	}
	return listing, nil
}

// standingBid returns the highest active bid, or nil.
func (m *Manager) standingBid(ctx context.Context, listingID string) (*models.Bid, error) {
	bids, err := m.store.GetActiveBids(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active bids: %w", err)
	}
	var top *models.Bid
	for i := range bids {
		if top == nil || bids[i].Amount.GreaterThan(top.Amount) {
			top = &bids[i]
		}
	}
	return top, nil
}

// Cancel withdraws an active listing. Only the seller may cancel, and not while a
// payment is settling it.
func (m *Manager) Cancel(ctx context.Context, listingID, actor string) (*models.Listing, error) {
	listing, err := m.load(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if actor == "" || actor != listing.SellerID {
		return nil, models.AuthorizationError("listing", listingID, actor)
	}

	for attempt := 0; attempt < m.maxAttempts; attempt++ {
		if listing, err = m.Refresh(ctx, listing); err != nil {
			return nil, err
		}
		if listing.Status != models.ListingActive {
			return nil, models.InvalidStateError("listing", listing.ID, string(listing.Status), "only active listings can be cancelled")
		}
		if listing.HasSettlementClaim() {
			return nil, models.InvalidStateError("listing", listing.ID, string(listing.Status), "payment %s is settling this listing", listing.SettlementPaymentID)
		}

		standing, err := m.standingBid(ctx, listing.ID)
		if err != nil {
			return nil, err
		}
		next := listing.Clone()
		if err := next.Transition(models.ListingCancelled); err != nil {
			return nil, err
		}
		var bidID string
		if standing != nil {
			bidID = standing.ID
		}

		err = m.store.FinalizeListing(ctx, next, bidID)
		if err == nil {
			m.logger.Info("listing cancelled", "listing_id", next.ID, "actor", actor)
			return next, nil
		}
		if !errors.Is(err, storage.ErrConditionFailed) {
			return nil, fmt.Errorf("failed to cancel listing: %w", err)
		}
		if listing, err = m.load(ctx, listingID); err != nil {
			return nil, err
		}
	}
	return nil, models.ConflictError("listing", listingID, "listing kept changing, try again")
}

// Expire persists the expiry of an auction that is due. Expiring an already
// expired listing is a no-op.
func (m *Manager) Expire(ctx context.Context, listingID string) (*models.Listing, error) {
	listing, err := m.load(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status == models.ListingExpired {
		return listing, nil
	}
	if listing, err = m.Refresh(ctx, listing); err != nil {
		return nil, err
	}
	if listing.Status != models.ListingExpired {
		return nil, models.InvalidStateError("listing", listing.ID, string(listing.Status), "listing is not due to expire")
	}
	return listing, nil
}

// SweepExpired persists every auction expiry that is due and returns how many
// listings it expired. Failures are logged and skipped.
func (m *Manager) SweepExpired(ctx context.Context) (int, error) {
	ended, err := m.store.ListEndedAuctions(ctx, m.now())
	if err != nil {
		return 0, fmt.Errorf("failed to list ended auctions: %w", err)
	}

	expired := 0
	for i := range ended {
		listing, err := m.Refresh(ctx, &ended[i])
		if err != nil {
			m.logger.Error("failed to expire listing", "listing_id", ended[i].ID, "error", err)
			continue
		}
		if listing.Status == models.ListingExpired && ended[i].Status == models.ListingActive {
			expired++
		}
	}
	return expired, nil
}

// Close marks a listing sold by paymentID. It only succeeds once the payment has
// completed under a released escrow and, for auctions, its bid has won. Closing a
// listing already sold by the same payment returns it unchanged.
func (m *Manager) Close(ctx context.Context, listingID, paymentID string) (*models.Listing, error) {
	listing, err := m.load(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status == models.ListingSold && listing.SoldPaymentID == paymentID {
		return listing, nil
	}
	if listing.Status != models.ListingActive {
		return nil, models.InvalidStateError("listing", listing.ID, string(listing.Status), "listing is no longer active")
	}

	payment, err := m.store.GetPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, models.NotFoundError("payment", paymentID)
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment.ListingID != listing.ID {
		return nil, models.ValidationError("listing", "payment %s does not belong to listing %s", paymentID, listing.ID)
	}
	if payment.Status != models.PaymentCompleted {
		return nil, models.InvalidStateError("listing", listing.ID, string(listing.Status), "payment %s is %s, not completed", paymentID, payment.Status)
	}
	if err := m.checkReleased(ctx, listing, payment); err != nil {
		return nil, err
	}
	if listing.Kind == models.Auction {
		if err := m.checkWon(ctx, listing, payment); err != nil {
			return nil, err
		}
	}

	next := listing.Clone()
	if err := next.Transition(models.ListingSold); err != nil {
		return nil, err
	}
	next.SoldPaymentID = paymentID
	if err := m.store.FinalizeListing(ctx, next, ""); err != nil {
		if errors.Is(err, storage.ErrConditionFailed) {
			current, loadErr := m.load(ctx, listingID)
			if loadErr != nil {
				return nil, loadErr
			}
			if current.Status == models.ListingSold && current.SoldPaymentID == paymentID {
				return current, nil
			}
			return nil, models.InvalidStateError("listing", listingID, string(current.Status), "listing changed while closing")
		}
		return nil, fmt.Errorf("failed to close listing: %w", err)
	}
	m.logger.Info("listing sold", "listing_id", next.ID, "payment_id", paymentID)
	return next, nil
}

func (m *Manager) checkReleased(ctx context.Context, listing *models.Listing, payment *models.Payment) error {
	if payment.EscrowID == "" {
		return models.InvalidStateError("listing", listing.ID, string(listing.Status), "payment %s has no escrow", payment.ID)
	}
	escrow, err := m.store.GetEscrow(ctx, payment.EscrowID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.NotFoundError("escrow", payment.EscrowID)
		}
		return fmt.Errorf("failed to get escrow: %w", err)
	}
	if escrow.Status != models.EscrowReleased {
		return models.InvalidStateError("listing", listing.ID, string(listing.Status), "escrow %s is %s, not released", escrow.ID, escrow.Status)
	}
	return nil
}

func (m *Manager) checkWon(ctx context.Context, listing *models.Listing, payment *models.Payment) error {
	if payment.BidID == "" {
		return models.InvalidStateError("listing", listing.ID, string(listing.Status), "payment %s funds no bid", payment.ID)
	}
	bid, err := m.store.GetBid(ctx, payment.BidID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.NotFoundError("bid", payment.BidID)
		}
		return fmt.Errorf("failed to get bid: %w", err)
	}
	if bid.Status != models.BidWon {
		return models.InvalidStateError("listing", listing.ID, string(listing.Status), "bid %s is %s, not won", bid.ID, bid.Status)
	}
	return nil
}
