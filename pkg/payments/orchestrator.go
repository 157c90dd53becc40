// Package payments drives a payment from initiation to completion.
//
// Settlement spans an external funds movement, so it runs as a saga of individually
// guarded writes: claim the listing, move the payment to processing, open the escrow,
// link it. Each step persists before the next starts, and a stalled saga is resumed
// from whatever was last persisted.
package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/property-settlement/pkg/directory"
	"github.com/chris/property-settlement/pkg/escrow"
	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/notify"
	"github.com/chris/property-settlement/pkg/settlement"
	"github.com/chris/property-settlement/pkg/storage"
	"github.com/google/uuid"
)

// Store is the slice of the ledger the orchestrator reads and writes.
type Store interface {
	GetListing(ctx context.Context, listingID string) (*models.Listing, error)
	ClaimSettlement(ctx context.Context, listing *models.Listing, paymentID string) error
	ReleaseSettlement(ctx context.Context, listingID, paymentID string) error
	GetBid(ctx context.Context, bidID string) (*models.Bid, error)
	GetActiveBids(ctx context.Context, listingID string) ([]models.Bid, error)
	GetEscrow(ctx context.Context, escrowID string) (*models.Escrow, error)
	ListEscrowsByStatus(ctx context.Context, status models.EscrowStatus, updatedBefore time.Time) ([]models.Escrow, error)
	storage.PaymentStore
	storage.SettlementStore
}

// Refresher applies lazy expiry to a listing.
type Refresher interface {
	Refresh(ctx context.Context, listing *models.Listing) (*models.Listing, error)
}

// EscrowOpener opens the escrow holding a payment.
type EscrowOpener interface {
	Open(ctx context.Context, in escrow.OpenInput) (*models.Escrow, error)
}

// Options tunes the orchestrator. Zero values select the defaults.
type Options struct {
	MaxAttempts int
	Now         func() time.Time
}

// Orchestrator is the Payment Orchestrator.
type Orchestrator struct {
	store       Store
	listings    Refresher
	dir         directory.Directory
	escrows     EscrowOpener
	backend     settlement.Backend
	notifier    notify.Notifier
	logger      *slog.Logger
	maxAttempts int
	now         func() time.Time
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(store Store, listings Refresher, dir directory.Directory, escrows EscrowOpener, backend settlement.Backend, notifier notify.Notifier, logger *slog.Logger, opts Options) *Orchestrator {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 5
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Orchestrator{
		store:       store,
		listings:    listings,
		dir:         dir,
		escrows:     escrows,
		backend:     backend,
		notifier:    notifier,
		logger:      logger.With("component", "payments"),
		maxAttempts: opts.MaxAttempts,
		now:         opts.Now,
	}
}

var _ escrow.Completer = (*Orchestrator)(nil)

// InitiateInput describes a buyer's payment against a listing.
type InitiateInput struct {
	ListingID string
	PayerID   string
	Amount    models.Money
	Method    models.PaymentType
}

// Get retrieves a payment by its ID.
func (o *Orchestrator) Get(ctx context.Context, paymentID string) (*models.Payment, error) {
	payment, err := o.store.GetPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, models.NotFoundError("payment", paymentID)
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

func (o *Orchestrator) loadListing(ctx context.Context, listingID string) (*models.Listing, error) {
	listing, err := o.store.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, models.NotFoundError("listing", listingID)
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return o.listings.Refresh(ctx, listing)
}

// winningBid returns the highest active bid on an ended auction, or nil.
func (o *Orchestrator) winningBid(ctx context.Context, listingID string) (*models.Bid, error) {
	active, err := o.store.GetActiveBids(ctx, listingID)
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

// Initiate creates a pending payment for the listing's fixed price or, for an
// ended auction, the winning bid.
func (o *Orchestrator) Initiate(ctx context.Context, in InitiateInput) (*models.Payment, error) {
	if in.PayerID == "" {
		return nil, models.ValidationError("payment", "payer_id is required")
	}
	if !in.Method.Valid() {
		return nil, models.ValidationError("payment", "unknown method %q", in.Method)
	}
	if !in.Amount.IsPositive() {
		return nil, models.ValidationError("payment", "amount must be positive")
	}
	in.Amount.Currency = models.NormalizeCurrency(in.Amount.Currency)

	listing, err := o.loadListing(ctx, in.ListingID)
	if err != nil {
		return nil, err
	}
	if ok, err := o.dir.UserExists(ctx, in.PayerID); err != nil {
		return nil, fmt.Errorf("failed to look up payer: %w", err)
	} else if !ok {
		return nil, models.NotFoundError("user", in.PayerID)
	}
	if listing.Status != models.ListingActive {
		return nil, models.InvalidStateError("listing", listing.ID, string(listing.Status), "listing is not for sale")
	}
	if listing.HasSettlementClaim() {
		return nil, models.InvalidStateError("listing", listing.ID, string(listing.Status), "another payment is settling this listing")
	}
	if in.PayerID == listing.SellerID {
		return nil, models.ValidationError("payment", "seller cannot buy own listing")
	}

	payment := &models.Payment{
		ID:        uuid.New().String(),
		PayerID:   in.PayerID,
		ListingID: listing.ID,
		Type:      in.Method,
		Amount:    in.Amount,
		Status:    models.PaymentPending,
	}

	switch listing.Kind {
	case models.FixedPrice:
		if !in.Amount.Equal(listing.Price) {
			return nil, models.ValidationError("payment", "amount %s does not match price %s", in.Amount, listing.Price)
		}
	case models.Auction:
		if !listing.Ended(o.now()) {
			return nil, models.InvalidStateError("listing", listing.ID, string(listing.Status), "auction is still running")
		}
		winner, err := o.winningBid(ctx, listing.ID)
		if err != nil {
			return nil, err
		}
		if winner == nil {
			return nil, models.InvalidStateError("listing", listing.ID, string(listing.Status), "auction has no winning bid")
		}
		if winner.BidderID != in.PayerID {
			return nil, models.AuthorizationError("listing", listing.ID, in.PayerID)
		}
		if !in.Amount.Equal(winner.Amount) {
			return nil, models.ValidationError("payment", "amount %s does not match winning bid %s", in.Amount, winner.Amount)
		}
		payment.BidID = winner.ID
	}

	now := o.now()
	payment.CreatedAt = now
	payment.UpdatedAt = now
	if err := o.store.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	o.logger.Info("payment initiated", "payment_id", payment.ID, "listing_id", listing.ID, "method", payment.Type)
	return payment, nil
}

// MarkProcessing moves the payer's pending payment to processing and opens its
// escrow. If the escrow step fails the payment stays processing and is resumed by
// ResumeProcessing.
func (o *Orchestrator) MarkProcessing(ctx context.Context, paymentID, actor, externalRef string) (*models.Payment, error) {
	payment, err := o.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if actor == "" || actor != payment.PayerID {
		return nil, models.AuthorizationError("payment", paymentID, actor)
	}
	if payment.Status != models.PaymentPending {
		return nil, models.InvalidStateError("payment", paymentID, string(payment.Status), "only pending payments can start processing")
	}
	if err := o.checkRefUnused(ctx, paymentID, externalRef); err != nil {
		return nil, err
	}

	listing, err := o.claimListing(ctx, payment)
	if err != nil {
		return nil, err
	}

	if err := payment.Transition(models.PaymentProcessing); err != nil {
		return nil, err
	}
	payment.ExternalRef = externalRef
	if err := o.store.UpdatePayment(ctx, payment, models.PaymentPending); err != nil {
		o.releaseClaim(ctx, listing.ID, payment.ID)
		if errors.Is(err, storage.ErrConditionFailed) {
			current, getErr := o.Get(ctx, paymentID)
			if getErr != nil {
				return nil, getErr
			}
			return nil, models.InvalidStateError("payment", paymentID, string(current.Status), "payment changed while starting processing")
		}
		return nil, fmt.Errorf("failed to mark payment processing: %w", err)
	}
	o.logger.Info("payment processing", "payment_id", payment.ID, "listing_id", listing.ID)

	if err := o.openEscrow(ctx, payment, listing.SellerID); err != nil {
		o.logger.Error("escrow step failed, payment left processing", "payment_id", payment.ID, "error", err)
		return nil, err
	}
	return payment, nil
}

// checkRefUnused refuses a settlement reference already recorded on another payment.
func (o *Orchestrator) checkRefUnused(ctx context.Context, paymentID, ref string) error {
	if ref == "" {
		return nil
	}
	holder, err := o.store.FindPaymentByExternalRef(ctx, ref)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up settlement reference: %w", err)
	}
	if holder.ID != paymentID {
		return models.ConflictError("payment", paymentID, "reference %s already settles payment %s", ref, holder.ID)
	}
	return nil
}

// claimListing records the payment as the one settling the listing. A claim
// already held by the same payment is reused.
func (o *Orchestrator) claimListing(ctx context.Context, payment *models.Payment) (*models.Listing, error) {
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		listing, err := o.loadListing(ctx, payment.ListingID)
		if err != nil {
			return nil, err
		}
		if listing.Status != models.ListingActive {
			return nil, models.InvalidStateError("listing", listing.ID, string(listing.Status), "listing is not for sale")
		}
		if listing.SettlementPaymentID == payment.ID {
			return listing, nil
		}
		if listing.HasSettlementClaim() {
			return nil, models.InvalidStateError("listing", listing.ID, string(listing.Status), "another payment is settling this listing")
		}
		if payment.BidID != "" {
			bid, err := o.store.GetBid(ctx, payment.BidID)
			if err != nil {
				return nil, fmt.Errorf("failed to get bid: %w", err)
			}
			if bid.Status != models.BidActive {
				return nil, models.InvalidStateError("bid", bid.ID, string(bid.Status), "bid is no longer active")
			}
		}

		err = o.store.ClaimSettlement(ctx, listing, payment.ID)
		if err == nil {
			return listing, nil
		}
		if !errors.Is(err, storage.ErrConditionFailed) {
			return nil, fmt.Errorf("failed to claim listing: %w", err)
		}
	}
	return nil, models.ConflictError("listing", payment.ListingID, "listing kept changing, try again")
}

func (o *Orchestrator) releaseClaim(ctx context.Context, listingID, paymentID string) {
	err := o.store.ReleaseSettlement(ctx, listingID, paymentID)
	if err != nil && !errors.Is(err, storage.ErrConditionFailed) {
		o.logger.Error("failed to release listing claim", "listing_id", listingID, "payment_id", paymentID, "error", err)
	}
}

// openEscrow opens (or finds) the payment's escrow and links it onto the payment.
func (o *Orchestrator) openEscrow(ctx context.Context, payment *models.Payment, sellerID string) error {
	opened, err := o.escrows.Open(ctx, escrow.OpenInput{
		PaymentID: payment.ID,
		ListingID: payment.ListingID,
		BuyerID:   payment.PayerID,
		SellerID:  sellerID,
		Amount:    payment.Amount,
	})
	if errors.Is(err, models.ErrConflict) {
		opened, err = o.store.GetEscrow(ctx, models.EscrowIDForPayment(payment.ID))
	}
	if err != nil {
		return fmt.Errorf("failed to open escrow: %w", err)
	}
	return o.linkEscrow(ctx, payment, opened.ID)
}

func (o *Orchestrator) linkEscrow(ctx context.Context, payment *models.Payment, escrowID string) error {
	if payment.EscrowID == escrowID {
		return nil
	}
	payment.EscrowID = escrowID
	if err := o.store.UpdatePayment(ctx, payment, models.PaymentProcessing); err != nil {
		payment.EscrowID = ""
		if errors.Is(err, storage.ErrConditionFailed) {
			current, getErr := o.Get(ctx, payment.ID)
			if getErr != nil {
				return getErr
			}
			if current.EscrowID == escrowID {
				*payment = *current
				return nil
			}
			return models.InvalidStateError("payment", payment.ID, string(current.Status), "payment changed before its escrow was linked")
		}
		return fmt.Errorf("failed to link escrow: %w", err)
	}
	return nil
}

// Submit verifies settlement evidence with the backend for the payment's method
// and, once confirmed, moves the payment to processing. Rejected evidence fails
// the payment.
func (o *Orchestrator) Submit(ctx context.Context, paymentID, actor, evidence string) (*models.Payment, error) {
	payment, err := o.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if actor == "" || actor != payment.PayerID {
		return nil, models.AuthorizationError("payment", paymentID, actor)
	}
	if payment.Status != models.PaymentPending {
		return nil, models.InvalidStateError("payment", paymentID, string(payment.Status), "only pending payments can be submitted")
	}

	ref, err := o.backend.Process(ctx, payment, evidence)
	switch {
	case errors.Is(err, settlement.ErrRejected):
		if _, failErr := o.MarkFailed(ctx, paymentID, err.Error()); failErr != nil {
			return nil, failErr
		}
		rejected := models.ValidationError("payment", "settlement rejected: %v", err)
		rejected.ID = paymentID
		rejected.Status = string(models.PaymentFailed)
		return nil, rejected
	case errors.Is(err, settlement.ErrNotConfirmed):
		return nil, models.InvalidStateError("payment", paymentID, string(payment.Status), "settlement not confirmed yet: %v", err)
	case err != nil:
		return nil, fmt.Errorf("failed to process settlement: %w", err)
	}

	return o.MarkProcessing(ctx, paymentID, actor, ref)
}

// MarkFailed fails a pending payment, or a processing payment whose escrow has not
// been opened. The listing claim is released so the listing stays sellable.
// Once an escrow exists a processing payment cannot fail; the funds leave only
// through release or dispute resolution.
func (o *Orchestrator) MarkFailed(ctx context.Context, paymentID, reason string) (*models.Payment, error) {
	payment, err := o.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = "unspecified"
	}

	from := payment.Status
	switch from {
	case models.PaymentPending:
	case models.PaymentProcessing:
		if payment.EscrowID != "" {
			return nil, models.InvalidStateError("payment", paymentID, string(from), "escrow %s is already open", payment.EscrowID)
		}
		_, err := o.store.GetEscrow(ctx, models.EscrowIDForPayment(paymentID))
		if err == nil {
			return nil, models.InvalidStateError("payment", paymentID, string(from), "escrow is already open")
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("failed to check escrow: %w", err)
		}
	default:
		return nil, models.InvalidStateError("payment", paymentID, string(from), "cannot fail a %s payment", from)
	}

	if err := payment.Transition(models.PaymentFailed); err != nil {
		return nil, err
	}
	payment.FailureReason = reason
	if err := o.store.UpdatePayment(ctx, payment, from); err != nil {
		if errors.Is(err, storage.ErrConditionFailed) {
			current, getErr := o.Get(ctx, paymentID)
			if getErr != nil {
				return nil, getErr
			}
			return nil, models.InvalidStateError("payment", paymentID, string(current.Status), "payment changed before it could be failed")
		}
		return nil, fmt.Errorf("failed to mark payment failed: %w", err)
	}
	o.releaseClaim(ctx, payment.ListingID, payment.ID)
	o.logger.Info("payment failed", "payment_id", paymentID, "reason", reason)

	err = o.notifier.Notify(ctx, notify.Notification{
		RecipientID: payment.PayerID,
		EventType:   notify.EventPaymentFailed,
		OccurredAt:  payment.UpdatedAt,
		Payload: map[string]interface{}{
			"payment_id": payment.ID,
			"listing_id": payment.ListingID,
			"reason":     reason,
		},
	})
	if err != nil {
		o.logger.Error("failed to send payment failed notification", "payment_id", paymentID, "error", err)
	}
	return payment, nil
}

// Refund reverses a completed payment. The listing stays sold.
func (o *Orchestrator) Refund(ctx context.Context, paymentID, reason string) (*models.Payment, error) {
	payment, err := o.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := payment.Transition(models.PaymentRefunded); err != nil {
		return nil, err
	}
	payment.FailureReason = reason
	if err := o.store.UpdatePayment(ctx, payment, models.PaymentCompleted); err != nil {
		if errors.Is(err, storage.ErrConditionFailed) {
			current, getErr := o.Get(ctx, paymentID)
			if getErr != nil {
				return nil, getErr
			}
			return nil, models.InvalidStateError("payment", paymentID, string(current.Status), "payment changed before it could be refunded")
		}
		return nil, fmt.Errorf("failed to refund payment: %w", err)
	}
	o.logger.Info("payment refunded", "payment_id", paymentID)
	return payment, nil
}

// CompleteSettlement applies the completion cascade for a released escrow: the
// payment completes, the winning bid (if any) is marked won and the listing is
// sold, all in one write. Running it again after success is a no-op.
func (o *Orchestrator) CompleteSettlement(ctx context.Context, released *models.Escrow) error {
	if released.Status != models.EscrowReleased {
		return models.InvalidStateError("escrow", released.ID, string(released.Status), "escrow is not released")
	}
	payment, err := o.Get(ctx, released.PaymentID)
	if err != nil {
		return err
	}
	switch payment.Status {
	case models.PaymentCompleted, models.PaymentRefunded:
		if payment.EscrowID == released.ID {
			return nil
		}
		return models.InvalidStateError("payment", payment.ID, string(payment.Status), "payment settled under escrow %s", payment.EscrowID)
	case models.PaymentProcessing:
	default:
		return models.InvalidStateError("payment", payment.ID, string(payment.Status), "payment cannot complete")
	}
	if payment.EscrowID == "" {
		if err := o.linkEscrow(ctx, payment, released.ID); err != nil {
			return err
		}
	}
	if payment.EscrowID != released.ID {
		return models.InvalidStateError("payment", payment.ID, string(payment.Status), "payment is held by escrow %s", payment.EscrowID)
	}

	listing, err := o.store.GetListing(ctx, payment.ListingID)
	if err != nil {
		return fmt.Errorf("failed to get listing: %w", err)
	}
	var bid *models.Bid
	if payment.BidID != "" {
		if bid, err = o.store.GetBid(ctx, payment.BidID); err != nil {
			return fmt.Errorf("failed to get bid: %w", err)
		}
	}

	err = o.store.SettleSale(ctx, storage.Settlement{
		EscrowID: released.ID,
		Payment:  payment,
		Listing:  listing,
		Bid:      bid,
		At:       o.now(),
	})
	if err != nil {
		if !errors.Is(err, storage.ErrConditionFailed) {
			return fmt.Errorf("failed to settle sale: %w", err)
		}
		current, getErr := o.Get(ctx, payment.ID)
		if getErr != nil {
			return getErr
		}
		if current.Status == models.PaymentCompleted && current.EscrowID == released.ID {
			return nil
		}
		return models.InvalidStateError("listing", listing.ID, string(listing.Status), "sale could not be settled: %v", err)
	}

	o.logger.Info("sale settled", "payment_id", payment.ID, "listing_id", listing.ID, "escrow_id", released.ID)
	return nil
}

// ResumeProcessing finishes sagas that stalled after the payment moved to
// processing: a missing escrow is opened and linked, and an escrow that was
// already released has its cascade re-run. It returns how many payments were
// advanced. Failures are logged and skipped.
func (o *Orchestrator) ResumeProcessing(ctx context.Context, olderThan time.Duration) (int, error) {
	stuck, err := o.store.ListPaymentsByStatus(ctx, models.PaymentProcessing, o.now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to list processing payments: %w", err)
	}

	resumed := 0
	for i := range stuck {
		payment := &stuck[i]
		if err := o.resume(ctx, payment); err != nil {
			o.logger.Error("failed to resume payment", "payment_id", payment.ID, "error", err)
			continue
		}
		resumed++
	}
	return resumed, nil
}

func (o *Orchestrator) resume(ctx context.Context, payment *models.Payment) error {
	escrowID := payment.EscrowID
	if escrowID == "" {
		listing, err := o.store.GetListing(ctx, payment.ListingID)
		if err != nil {
			return fmt.Errorf("failed to get listing: %w", err)
		}
		if err := o.openEscrow(ctx, payment, listing.SellerID); err != nil {
			return err
		}
		o.logger.Info("resumed escrow step", "payment_id", payment.ID, "escrow_id", payment.EscrowID)
		escrowID = payment.EscrowID
	}

	held, err := o.store.GetEscrow(ctx, escrowID)
	if err != nil {
		return fmt.Errorf("failed to get escrow: %w", err)
	}
	if held.Status == models.EscrowReleased {
		return o.CompleteSettlement(ctx, held)
	}
	return nil
}

// ResumeReleased re-runs the completion cascade for released escrows whose payment
// has not completed. It returns how many sales were settled.
func (o *Orchestrator) ResumeReleased(ctx context.Context, olderThan time.Duration) (int, error) {
	released, err := o.store.ListEscrowsByStatus(ctx, models.EscrowReleased, o.now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to list released escrows: %w", err)
	}

	settled := 0
	for i := range released {
		held := &released[i]
		payment, err := o.Get(ctx, held.PaymentID)
		if err != nil {
			o.logger.Error("failed to get payment for released escrow", "escrow_id", held.ID, "error", err)
			continue
		}
		if payment.Status != models.PaymentProcessing {
			continue
		}
		if err := o.CompleteSettlement(ctx, held); err != nil {
			o.logger.Error("failed to complete settlement", "escrow_id", held.ID, "error", err)
			continue
		}
		settled++
	}
	return settled, nil
}
