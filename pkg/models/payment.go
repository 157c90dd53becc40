package models

import "time"

// PaymentType is the funding instrument.
type PaymentType string

const (
	Crypto PaymentType = "crypto"
	Fiat   PaymentType = "fiat"
)

// Valid reports whether t is a known payment type.
func (t PaymentType) Valid() bool {
	return t == Crypto || t == Fiat
}

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

// completed -> refunded is the only move out of a settled state.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:    {PaymentProcessing, PaymentFailed},
	PaymentProcessing: {PaymentCompleted, PaymentFailed},
	PaymentCompleted:  {PaymentRefunded},
}

// Next returns next if the move from s is permitted.
func (s PaymentStatus) Next(next PaymentStatus) (PaymentStatus, bool) {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return next, true
		}
	}
	return s, false
}

// Payment is one buyer's funding of a listing.
type Payment struct {
	ID        string `json:"id"`
	PayerID   string `json:"payer_id"`
	ListingID string `json:"listing_id"`
	// BidID is the winning bid being settled; empty for fixed-price purchases.
	BidID         string        `json:"bid_id,omitempty"`
	Type          PaymentType   `json:"type"`
	Amount        Money         `json:"amount"`
	Status        PaymentStatus `json:"status"`
	EscrowID      string        `json:"escrow_id,omitempty"`
	ExternalRef   string        `json:"external_ref,omitempty"`
	FailureReason string        `json:"failure_reason,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Transition moves the payment to next or returns an InvalidStateError.
func (p *Payment) Transition(next PaymentStatus) error {
	to, ok := p.Status.Next(next)
	if !ok {
		return InvalidStateError("payment", p.ID, string(p.Status), "cannot move to %s", next)
	}
	p.Status = to
	return nil
}
