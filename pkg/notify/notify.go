package notify

import (
	"context"
	"time"
)

// EventType identifies what happened.
type EventType string

const (
	EventEscrowDisputed EventType = "escrow.disputed"
	EventEscrowReleased EventType = "escrow.released"
	EventPaymentFailed  EventType = "payment.failed"
	EventBidOutbid      EventType = "bid.outbid"
)

// Notification is a trigger addressed to one user.
type Notification struct {
	RecipientID string                 `json:"recipient_id"`
	EventType   EventType              `json:"event_type"`
	Payload     map[string]interface{} `json:"payload"`
	OccurredAt  time.Time              `json:"occurred_at"`
}

//go:generate mockery --name Notifier --output ./mocks --outpkg mocks

// Notifier defines the interface for emitting notification triggers.
// Delivery failures are reported to the caller, who logs them; they never undo
// the transition that produced the notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
