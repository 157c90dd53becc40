package models

import (
	"time"

	"github.com/google/uuid"
)

// EscrowStatus is the lifecycle state of an escrow.
type EscrowStatus string

const (
	EscrowActive   EscrowStatus = "active"
	EscrowDisputed EscrowStatus = "disputed"
	EscrowReleased EscrowStatus = "released"
)

// disputed -> active is reserved for external arbitration. A disputed escrow may
// still be released by the buyer.
var escrowTransitions = map[EscrowStatus][]EscrowStatus{
	EscrowActive:   {EscrowDisputed, EscrowReleased},
	EscrowDisputed: {EscrowReleased, EscrowActive},
}

// Next returns next if the move from s is permitted.
func (s EscrowStatus) Next(next EscrowStatus) (EscrowStatus, bool) {
	for _, allowed := range escrowTransitions[s] {
		if allowed == next {
			return next, true
		}
	}
	return s, false
}

// Escrow holds settlement state between buyer and seller for a payment.
type Escrow struct {
	ID                 string       `json:"id"`
	PaymentID          string       `json:"payment_id"`
	ListingID          string       `json:"listing_id"`
	BuyerID            string       `json:"buyer_id"`
	SellerID           string       `json:"seller_id"`
	Amount             Money        `json:"amount"`
	Status             EscrowStatus `json:"status"`
	DisputeReason      string       `json:"dispute_reason,omitempty"`
	DisputeDescription string       `json:"dispute_description,omitempty"`
	DisputedBy         string       `json:"disputed_by,omitempty"`
	ReleaseProof       string       `json:"release_proof,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
	ReleasedAt         *time.Time   `json:"released_at,omitempty"`
}

// Transition moves the escrow to next or returns an InvalidStateError.
func (e *Escrow) Transition(next EscrowStatus) error {
	to, ok := e.Status.Next(next)
	if !ok {
		return InvalidStateError("escrow", e.ID, string(e.Status), "cannot move to %s", next)
	}
	e.Status = to
	return nil
}

// IsParty reports whether actor is the buyer or the seller.
func (e *Escrow) IsParty(actor string) bool {
	return actor != "" && (actor == e.BuyerID || actor == e.SellerID)
}

// CounterParty returns the other side of the escrow from actor.
func (e *Escrow) CounterParty(actor string) string {
	if actor == e.BuyerID {
		return e.SellerID
	}
	return e.BuyerID
}

var escrowNamespace = uuid.MustParse("6f1c1d1e-4b8a-5e47-9d0c-2f1f5b3f7a10")

// EscrowIDForPayment derives the escrow identifier from the payment it holds, so a
// second escrow for the same payment collides on insert.
func EscrowIDForPayment(paymentID string) string {
	return uuid.NewSHA1(escrowNamespace, []byte(paymentID)).String()
}
