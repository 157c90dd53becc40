package models

import (
	"time"
)

// ListingKind distinguishes fixed-price sales from auctions.
type ListingKind string

const (
	FixedPrice ListingKind = "fixed_price"
	Auction    ListingKind = "auction"
)

// Valid reports whether k is a known listing kind.
func (k ListingKind) Valid() bool {
	return k == FixedPrice || k == Auction
}

// ListingStatus is the lifecycle state of a listing.
type ListingStatus string

const (
	ListingActive    ListingStatus = "active"
	ListingSold      ListingStatus = "sold"
	ListingCancelled ListingStatus = "cancelled"
	ListingExpired   ListingStatus = "expired"
)

var listingTransitions = map[ListingStatus][]ListingStatus{
	ListingActive: {ListingSold, ListingCancelled, ListingExpired},
}

// Terminal reports whether no further transitions are possible.
func (s ListingStatus) Terminal() bool {
	return len(listingTransitions[s]) == 0
}

// Next returns next if the move from s is permitted.
func (s ListingStatus) Next(next ListingStatus) (ListingStatus, bool) {
	for _, allowed := range listingTransitions[s] {
		if allowed == next {
			return next, true
		}
	}
	return s, false
}

// Listing is one property offered for sale.
type Listing struct {
	ID         string        `json:"id"`
	PropertyID string        `json:"property_id"`
	SellerID   string        `json:"seller_id"`
	Kind       ListingKind   `json:"kind"`
	Price      Money         `json:"price"`
	EndsAt     *time.Time    `json:"ends_at,omitempty"`
	Status     ListingStatus `json:"status"`
	// SettlementPaymentID is set while a payment is processing against the listing.
	SettlementPaymentID string    `json:"settlement_payment_id,omitempty"`
	SoldPaymentID       string    `json:"sold_payment_id,omitempty"`
	Version             int64     `json:"version"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Transition moves the listing to next or returns an InvalidStateError.
func (l *Listing) Transition(next ListingStatus) error {
	to, ok := l.Status.Next(next)
	if !ok {
		return InvalidStateError("listing", l.ID, string(l.Status), "cannot move to %s", next)
	}
	l.Status = to
	return nil
}

// Ended reports whether an auction's bidding window has closed.
func (l *Listing) Ended(now time.Time) bool {
	return l.Kind == Auction && l.EndsAt != nil && !now.Before(*l.EndsAt)
}

// HasSettlementClaim reports whether a payment has claimed the listing.
func (l *Listing) HasSettlementClaim() bool {
	return l.SettlementPaymentID != ""
}

// ShouldExpire reports whether an active auction is past its end and can no
// longer be settled. An auction that ended with a standing bid stays open for
// grace so the winner can pay; a claimed listing never expires.
func (l *Listing) ShouldExpire(now time.Time, grace time.Duration, hasActiveBid bool) bool {
	if l.Status != ListingActive || !l.Ended(now) || l.HasSettlementClaim() {
		return false
	}
	if hasActiveBid {
		return !now.Before(l.EndsAt.Add(grace))
	}
	return true
}

// Clone returns a copy safe to mutate.
func (l *Listing) Clone() *Listing {
	if l == nil {
		return nil
	}
	c := *l
	if l.EndsAt != nil {
		t := *l.EndsAt
		c.EndsAt = &t
	}
	return &c
}
