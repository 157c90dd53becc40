package models

import "time"

// BidStatus is the lifecycle state of a bid.
type BidStatus string

const (
	BidActive    BidStatus = "active"
	BidOutbid    BidStatus = "outbid"
	BidWon       BidStatus = "won"
	BidCancelled BidStatus = "cancelled"
)

var bidTransitions = map[BidStatus][]BidStatus{
	BidActive: {BidOutbid, BidWon, BidCancelled},
}

// Next returns next if the move from s is permitted.
func (s BidStatus) Next(next BidStatus) (BidStatus, bool) {
	for _, allowed := range bidTransitions[s] {
		if allowed == next {
			return next, true
		}
	}
	return s, false
}

// Bid is an offer against an auction listing.
type Bid struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    Money     `json:"amount"`
	Status    BidStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transition moves the bid to next or returns an InvalidStateError.
func (b *Bid) Transition(next BidStatus) error {
	to, ok := b.Status.Next(next)
	if !ok {
		return InvalidStateError("bid", b.ID, string(b.Status), "cannot move to %s", next)
	}
	b.Status = to
	return nil
}
