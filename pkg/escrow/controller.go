// Package escrow holds a payment's funds between the buyer and the seller until the
// buyer confirms the transfer.
package escrow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/notify"
	"github.com/chris/property-settlement/pkg/storage"
)

// Completer applies the completion cascade for a released escrow. It must be
// safe to call more than once for the same escrow.
type Completer interface {
	CompleteSettlement(ctx context.Context, escrow *models.Escrow) error
}

// Outcome is the result of external arbitration on a disputed escrow.
type Outcome string

const (
	OutcomeReopen  Outcome = "reopen"
	OutcomeRelease Outcome = "release"
)

// Options tunes the controller. Zero values select the defaults.
type Options struct {
	Now func() time.Time
}

// Controller is the Escrow Controller.
type Controller struct {
	store     storage.EscrowStore
	completer Completer
	notifier  notify.Notifier
	logger    *slog.Logger
	now       func() time.Time
}

// NewController creates a new Controller. The completer is wired afterwards with
// SetCompleter because the payment orchestrator itself depends on the controller.
func NewController(store storage.EscrowStore, notifier notify.Notifier, logger *slog.Logger, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Controller{
		store:    store,
		notifier: notifier,
		logger:   logger.With("component", "escrow"),
		now:      opts.Now,
	}
}

// SetCompleter wires the completion cascade.
func (c *Controller) SetCompleter(completer Completer) {
	c.completer = completer
}

// OpenInput describes the escrow for one payment.
type OpenInput struct {
	PaymentID string
	ListingID string
	BuyerID   string
	SellerID  string
	Amount    models.Money
}

// Open creates the escrow for a payment. A payment has at most one escrow.
func (c *Controller) Open(ctx context.Context, in OpenInput) (*models.Escrow, error) {
	switch {
	case in.PaymentID == "":
		return nil, models.ValidationError("escrow", "payment_id is required")
	case in.ListingID == "":
		return nil, models.ValidationError("escrow", "listing_id is required")
	case in.BuyerID == "" || in.SellerID == "":
		return nil, models.ValidationError("escrow", "buyer_id and seller_id are required")
	case in.BuyerID == in.SellerID:
		return nil, models.ValidationError("escrow", "buyer and seller must differ")
	case !in.Amount.IsPositive():
		return nil, models.ValidationError("escrow", "amount must be positive")
	}

	now := c.now()
	escrow := &models.Escrow{
		ID:        models.EscrowIDForPayment(in.PaymentID),
		PaymentID: in.PaymentID,
		ListingID: in.ListingID,
		BuyerID:   in.BuyerID,
		SellerID:  in.SellerID,
		Amount:    in.Amount,
		Status:    models.EscrowActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.store.CreateEscrow(ctx, escrow); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, models.ConflictError("escrow", escrow.ID, "payment %s already has an escrow", in.PaymentID)
		}
		return nil, fmt.Errorf("failed to create escrow: %w", err)
	}

	c.logger.Info("escrow opened", "escrow_id", escrow.ID, "payment_id", escrow.PaymentID)
	return escrow, nil
}

// Get retrieves an escrow by its ID.
func (c *Controller) Get(ctx context.Context, escrowID string) (*models.Escrow, error) {
	escrow, err := c.store.GetEscrow(ctx, escrowID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, models.NotFoundError("escrow", escrowID)
		}
		return nil, fmt.Errorf("failed to get escrow: %w", err)
	}
	return escrow, nil
}

// currentState re-reads the escrow after a lost conditional write and reports the
// status it moved to.
func (c *Controller) currentState(ctx context.Context, escrowID, action string) error {
	current, err := c.Get(ctx, escrowID)
	if err != nil {
		return err
	}
	return models.InvalidStateError("escrow", escrowID, string(current.Status), "cannot %s", action)
}

// Dispute moves an active escrow to disputed and notifies the other party.
func (c *Controller) Dispute(ctx context.Context, escrowID, actor, reason, description string) (*models.Escrow, error) {
	escrow, err := c.Get(ctx, escrowID)
	if err != nil {
		return nil, err
	}
	if !escrow.IsParty(actor) {
		return nil, models.AuthorizationError("escrow", escrowID, actor)
	}
	if reason == "" {
		return nil, models.ValidationError("escrow", "dispute reason is required")
	}
	if escrow.Status != models.EscrowActive {
		return nil, models.InvalidStateError("escrow", escrowID, string(escrow.Status), "only active escrows can be disputed")
	}
	if err := escrow.Transition(models.EscrowDisputed); err != nil {
		return nil, err
	}
	escrow.DisputeReason = reason
	escrow.DisputeDescription = description
	escrow.DisputedBy = actor

	if err := c.store.UpdateEscrow(ctx, escrow, models.EscrowActive); err != nil {
		if errors.Is(err, storage.ErrConditionFailed) {
			return nil, c.currentState(ctx, escrowID, "dispute")
		}
		return nil, fmt.Errorf("failed to dispute escrow: %w", err)
	}
	c.logger.Info("escrow disputed", "escrow_id", escrowID, "actor", actor, "reason", reason)

	c.notify(ctx, escrow.CounterParty(actor), notify.EventEscrowDisputed, escrow, map[string]interface{}{
		"reason":      reason,
		"description": description,
		"disputed_by": actor,
	})
	return escrow, nil
}

// Release confirms the transfer on behalf of the buyer and runs the completion
// cascade. Releasing an escrow that is already released only re-runs the cascade.
func (c *Controller) Release(ctx context.Context, escrowID, actor, proof string) (*models.Escrow, error) {
	escrow, err := c.Get(ctx, escrowID)
	if err != nil {
		return nil, err
	}
	if actor == "" || actor != escrow.BuyerID {
		return nil, models.AuthorizationError("escrow", escrowID, actor)
	}
	if escrow.Status == models.EscrowReleased {
		return c.complete(ctx, escrow)
	}
	return c.release(ctx, escrow, proof)
}

func (c *Controller) release(ctx context.Context, escrow *models.Escrow, proof string) (*models.Escrow, error) {
	from := escrow.Status
	if err := escrow.Transition(models.EscrowReleased); err != nil {
		return nil, err
	}
	releasedAt := c.now()
	escrow.ReleaseProof = proof
	escrow.ReleasedAt = &releasedAt

	if err := c.store.UpdateEscrow(ctx, escrow, from); err != nil {
		if !errors.Is(err, storage.ErrConditionFailed) {
			return nil, fmt.Errorf("failed to release escrow: %w", err)
		}
		current, getErr := c.Get(ctx, escrow.ID)
		if getErr != nil {
			return nil, getErr
		}
		if current.Status == models.EscrowReleased {
			// A concurrent release won; it owns the notification.
			return c.complete(ctx, current)
		}
		return nil, models.InvalidStateError("escrow", escrow.ID, string(current.Status), "cannot release")
	}
	c.logger.Info("escrow released", "escrow_id", escrow.ID, "from", from)

	completeErr := c.runCascade(ctx, escrow)
	c.notify(ctx, escrow.SellerID, notify.EventEscrowReleased, escrow, map[string]interface{}{
		"proof": proof,
	})
	if completeErr != nil {
		return nil, completeErr
	}
	return escrow, nil
}

func (c *Controller) complete(ctx context.Context, escrow *models.Escrow) (*models.Escrow, error) {
	if err := c.runCascade(ctx, escrow); err != nil {
		return nil, err
	}
	return escrow, nil
}

func (c *Controller) runCascade(ctx context.Context, escrow *models.Escrow) error {
	if c.completer == nil {
		return fmt.Errorf("escrow %s released but no completion handler is configured", escrow.ID)
	}
	if err := c.completer.CompleteSettlement(ctx, escrow); err != nil {
		c.logger.Error("completion cascade failed", "escrow_id", escrow.ID, "error", err)
		return err
	}
	return nil
}

// Resolve applies the outcome of arbitration to a disputed escrow.
func (c *Controller) Resolve(ctx context.Context, escrowID string, outcome Outcome) (*models.Escrow, error) {
	escrow, err := c.Get(ctx, escrowID)
	if err != nil {
		return nil, err
	}
	if outcome != OutcomeReopen && outcome != OutcomeRelease {
		return nil, models.ValidationError("escrow", "unknown outcome %q", outcome)
	}
	if escrow.Status != models.EscrowDisputed {
		return nil, models.InvalidStateError("escrow", escrowID, string(escrow.Status), "only disputed escrows can be resolved")
	}

	if outcome == OutcomeRelease {
		return c.release(ctx, escrow, "arbitration")
	}

	if err := escrow.Transition(models.EscrowActive); err != nil {
		return nil, err
	}
	if err := c.store.UpdateEscrow(ctx, escrow, models.EscrowDisputed); err != nil {
		if errors.Is(err, storage.ErrConditionFailed) {
			return nil, c.currentState(ctx, escrowID, "reopen")
		}
		return nil, fmt.Errorf("failed to reopen escrow: %w", err)
	}
	c.logger.Info("escrow reopened", "escrow_id", escrowID)
	return escrow, nil
}

// notify sends a trigger and logs delivery failures. A failed notification never
// undoes the transition.
func (c *Controller) notify(ctx context.Context, recipient string, event notify.EventType, escrow *models.Escrow, payload map[string]interface{}) {
	payload["escrow_id"] = escrow.ID
	payload["payment_id"] = escrow.PaymentID
	payload["listing_id"] = escrow.ListingID
	err := c.notifier.Notify(ctx, notify.Notification{
		RecipientID: recipient,
		EventType:   event,
		Payload:     payload,
		OccurredAt:  escrow.UpdatedAt,
	})
	if err != nil {
		c.logger.Error("failed to send notification", "event", event, "escrow_id", escrow.ID, "error", err)
	}
}
