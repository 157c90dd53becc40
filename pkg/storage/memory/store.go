// Package memory provides an in-process Storage used for local runs and tests.
// Every write applies the same guards as the DynamoDB store under a single lock.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/storage"
)

// Store implements storage.Storage in memory.
type Store struct {
	mu       sync.Mutex
	listings map[string]*models.Listing
	active   map[string]string // property ID -> listing ID
	bids     map[string]*models.Bid
	payments map[string]*models.Payment
	escrows  map[string]*models.Escrow
	now      func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		listings: make(map[string]*models.Listing),
		active:   make(map[string]string),
		bids:     make(map[string]*models.Bid),
		payments: make(map[string]*models.Payment),
		escrows:  make(map[string]*models.Escrow),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ storage.Storage = (*Store)(nil)

func copyBid(b *models.Bid) *models.Bid {
	c := *b
	return &c
}

func copyPayment(p *models.Payment) *models.Payment {
	c := *p
	return &c
}

func copyEscrow(e *models.Escrow) *models.Escrow {
	c := *e
	if e.ReleasedAt != nil {
		t := *e.ReleasedAt
		c.ReleasedAt = &t
	}
	return &c
}

// CreateListing inserts the listing and claims its property.
func (s *Store) CreateListing(_ context.Context, listing *models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.active[listing.PropertyID]; ok {
		return fmt.Errorf("property %s already has an active listing: %w", listing.PropertyID, storage.ErrAlreadyExists)
	}
	if _, ok := s.listings[listing.ID]; ok {
		return fmt.Errorf("listing %s: %w", listing.ID, storage.ErrAlreadyExists)
	}
	s.listings[listing.ID] = listing.Clone()
	s.active[listing.PropertyID] = listing.ID
	return nil
}

// GetListing retrieves a listing by its ID.
func (s *Store) GetListing(_ context.Context, listingID string) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[listingID]
	if !ok {
		return nil, fmt.Errorf("listing %s: %w", listingID, storage.ErrNotFound)
	}
	return l.Clone(), nil
}

// GetActiveListingID returns the listing currently claiming the property.
func (s *Store) GetActiveListingID(_ context.Context, propertyID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.active[propertyID]
	if !ok {
		return "", fmt.Errorf("property %s: %w", propertyID, storage.ErrNotFound)
	}
	return id, nil
}

// ListEndedAuctions retrieves active auctions whose end time is before the cutoff.
func (s *Store) ListEndedAuctions(_ context.Context, before time.Time) ([]models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Listing
	for _, l := range s.listings {
		if l.Status == models.ListingActive && l.EndsAt != nil && l.EndsAt.Before(before) {
			out = append(out, *l.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndsAt.Before(*out[j].EndsAt) })
	return out, nil
}

// FinalizeListing persists a terminal status and releases the property claim.
func (s *Store) FinalizeListing(_ context.Context, listing *models.Listing, activeBidID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.listings[listing.ID]
	if !ok || stored.Status != models.ListingActive || stored.Version != listing.Version {
		return fmt.Errorf("listing %s changed before it could be finalized: %w", listing.ID, storage.ErrConditionFailed)
	}
	if s.active[stored.PropertyID] != stored.ID {
		return fmt.Errorf("property %s is not claimed by listing %s: %w", stored.PropertyID, stored.ID, storage.ErrConditionFailed)
	}
	var bid *models.Bid
	if activeBidID != "" {
		bid, ok = s.bids[activeBidID]
		if !ok || bid.Status != models.BidActive {
			return fmt.Errorf("bid %s is no longer active: %w", activeBidID, storage.ErrConditionFailed)
		}
	}

	now := s.now()
	stored.Status = listing.Status
	stored.Version++
	stored.UpdatedAt = now
	if listing.SoldPaymentID != "" {
		stored.SoldPaymentID = listing.SoldPaymentID
		stored.SettlementPaymentID = ""
	}
	delete(s.active, stored.PropertyID)
	if bid != nil {
		bid.Status = models.BidCancelled
		bid.UpdatedAt = now
	}

	listing.Version = stored.Version
	listing.UpdatedAt = now
	listing.SettlementPaymentID = stored.SettlementPaymentID
	return nil
}

// ClaimSettlement records the payment settling the listing.
func (s *Store) ClaimSettlement(_ context.Context, listing *models.Listing, paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.listings[listing.ID]
	if !ok || stored.Status != models.ListingActive || stored.Version != listing.Version || stored.HasSettlementClaim() {
		return fmt.Errorf("listing %s changed before it could be claimed: %w", listing.ID, storage.ErrConditionFailed)
	}

	stored.SettlementPaymentID = paymentID
	stored.Version++
	stored.UpdatedAt = s.now()

	listing.SettlementPaymentID = paymentID
	listing.Version = stored.Version
	listing.UpdatedAt = stored.UpdatedAt
	return nil
}

// ReleaseSettlement clears the claim held by paymentID.
func (s *Store) ReleaseSettlement(_ context.Context, listingID, paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.listings[listingID]
	if !ok || stored.SettlementPaymentID != paymentID {
		return fmt.Errorf("listing %s is not claimed by payment %s: %w", listingID, paymentID, storage.ErrConditionFailed)
	}
	stored.SettlementPaymentID = ""
	stored.Version++
	stored.UpdatedAt = s.now()
	return nil
}

// GetBid retrieves a bid by its ID.
func (s *Store) GetBid(_ context.Context, bidID string) (*models.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bids[bidID]
	if !ok {
		return nil, fmt.Errorf("bid %s: %w", bidID, storage.ErrNotFound)
	}
	return copyBid(b), nil
}

// ListBids retrieves every bid placed on a listing, oldest first.
func (s *Store) ListBids(_ context.Context, listingID string) ([]models.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bidsFor(listingID, false), nil
}

// GetActiveBids retrieves the active bids on a listing.
func (s *Store) GetActiveBids(_ context.Context, listingID string) ([]models.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bidsFor(listingID, true), nil
}

func (s *Store) bidsFor(listingID string, activeOnly bool) []models.Bid {
	var out []models.Bid
	for _, b := range s.bids {
		if b.ListingID != listingID || (activeOnly && b.Status != models.BidActive) {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// AcceptBid inserts the bid as active and supersedes the previous active bids.
func (s *Store) AcceptBid(_ context.Context, listing *models.Listing, bid *models.Bid, superseded []models.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.listings[listing.ID]
	if !ok || stored.Status != models.ListingActive || stored.Version != listing.Version || stored.HasSettlementClaim() {
		return fmt.Errorf("listing %s changed while bidding: %w", listing.ID, storage.ErrConditionFailed)
	}
	if _, exists := s.bids[bid.ID]; exists {
		return fmt.Errorf("bid %s: %w", bid.ID, storage.ErrConditionFailed)
	}
	for _, prev := range superseded {
		current, ok := s.bids[prev.ID]
		if !ok || current.Status != models.BidActive {
			return fmt.Errorf("bid %s is no longer active: %w", prev.ID, storage.ErrConditionFailed)
		}
	}

	now := s.now()
	stored.Version++
	stored.UpdatedAt = now
	s.bids[bid.ID] = copyBid(bid)
	for _, prev := range superseded {
		current := s.bids[prev.ID]
		current.Status = models.BidOutbid
		current.UpdatedAt = now
	}

	listing.Version = stored.Version
	listing.UpdatedAt = now
	return nil
}

// WithdrawBid cancels an active bid while the listing is unclaimed.
func (s *Store) WithdrawBid(_ context.Context, listing *models.Listing, bid *models.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.listings[listing.ID]
	if !ok || stored.Version != listing.Version || stored.HasSettlementClaim() {
		return fmt.Errorf("bid %s could not be withdrawn: %w", bid.ID, storage.ErrConditionFailed)
	}
	current, ok := s.bids[bid.ID]
	if !ok || current.Status != models.BidActive {
		return fmt.Errorf("bid %s could not be withdrawn: %w", bid.ID, storage.ErrConditionFailed)
	}

	now := s.now()
	stored.Version++
	stored.UpdatedAt = now
	current.Status = models.BidCancelled
	current.UpdatedAt = now

	listing.Version = stored.Version
	listing.UpdatedAt = now
	bid.Status = models.BidCancelled
	bid.UpdatedAt = now
	return nil
}

// CreatePayment inserts a new payment record.
func (s *Store) CreatePayment(_ context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[payment.ID]; ok {
		return fmt.Errorf("payment %s: %w", payment.ID, storage.ErrAlreadyExists)
	}
	s.payments[payment.ID] = copyPayment(payment)
	return nil
}

// GetPayment retrieves a payment by its ID.
func (s *Store) GetPayment(_ context.Context, paymentID string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", paymentID, storage.ErrNotFound)
	}
	return copyPayment(p), nil
}

// UpdatePayment persists the payment guarded by its previous status and escrow link.
func (s *Store) UpdatePayment(_ context.Context, payment *models.Payment, from models.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.payments[payment.ID]
	linked := ok && (stored.EscrowID == "" || stored.EscrowID == payment.EscrowID)
	if !ok || stored.Status != from || !linked {
		return fmt.Errorf("payment %s is no longer %s: %w", payment.ID, from, storage.ErrConditionFailed)
	}

	stored.Status = payment.Status
	stored.UpdatedAt = s.now()
	if payment.EscrowID != "" {
		stored.EscrowID = payment.EscrowID
	}
	if payment.ExternalRef != "" {
		stored.ExternalRef = payment.ExternalRef
	}
	if payment.FailureReason != "" {
		stored.FailureReason = payment.FailureReason
	}
	payment.UpdatedAt = stored.UpdatedAt
	return nil
}

// ListPaymentsByStatus retrieves payments in a status last updated before the cutoff.
func (s *Store) ListPaymentsByStatus(_ context.Context, status models.PaymentStatus, updatedBefore time.Time) ([]models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Payment
	for _, p := range s.payments {
		if p.Status == status && p.UpdatedAt.Before(updatedBefore) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	return out, nil
}

// FindPaymentByExternalRef retrieves the payment holding a settlement reference.
func (s *Store) FindPaymentByExternalRef(_ context.Context, ref string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.payments {
		if ref != "" && p.ExternalRef == ref {
			return copyPayment(p), nil
		}
	}
	return nil, fmt.Errorf("payment with reference %s: %w", ref, storage.ErrNotFound)
}

// CreateEscrow inserts a new escrow record.
func (s *Store) CreateEscrow(_ context.Context, escrow *models.Escrow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.escrows[escrow.ID]; ok {
		return fmt.Errorf("escrow %s: %w", escrow.ID, storage.ErrAlreadyExists)
	}
	s.escrows[escrow.ID] = copyEscrow(escrow)
	return nil
}

// GetEscrow retrieves an escrow by its ID.
func (s *Store) GetEscrow(_ context.Context, escrowID string) (*models.Escrow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.escrows[escrowID]
	if !ok {
		return nil, fmt.Errorf("escrow %s: %w", escrowID, storage.ErrNotFound)
	}
	return copyEscrow(e), nil
}

// UpdateEscrow persists the escrow guarded by its previous status.
func (s *Store) UpdateEscrow(_ context.Context, escrow *models.Escrow, from ...models.EscrowStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.escrows[escrow.ID]
	if !ok {
		return fmt.Errorf("escrow %s: %w", escrow.ID, storage.ErrConditionFailed)
	}
	matched := false
	for _, status := range from {
		if stored.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return fmt.Errorf("escrow %s changed status: %w", escrow.ID, storage.ErrConditionFailed)
	}

	updated := copyEscrow(escrow)
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = s.now()
	s.escrows[escrow.ID] = updated
	escrow.UpdatedAt = updated.UpdatedAt
	return nil
}

// ListEscrowsByStatus retrieves escrows in a status last updated before the cutoff.
func (s *Store) ListEscrowsByStatus(_ context.Context, status models.EscrowStatus, updatedBefore time.Time) ([]models.Escrow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Escrow
	for _, e := range s.escrows {
		if e.Status == status && e.UpdatedAt.Before(updatedBefore) {
			out = append(out, *copyEscrow(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	return out, nil
}

// SettleSale completes the payment, marks the bid won and the listing sold, and
// frees the property. Nothing is applied unless every guard holds.
func (s *Store) SettleSale(_ context.Context, settlement storage.Settlement) error {
	if settlement.Payment == nil || settlement.Listing == nil {
		return fmt.Errorf("settle sale: payment and listing are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[settlement.Payment.ID]
	if !ok || payment.Status != models.PaymentProcessing || payment.EscrowID != settlement.EscrowID {
		return fmt.Errorf("payment %s is not processing under escrow %s: %w", settlement.Payment.ID, settlement.EscrowID, storage.ErrConditionFailed)
	}
	listing, ok := s.listings[settlement.Listing.ID]
	if !ok || listing.Status != models.ListingActive || listing.SettlementPaymentID != payment.ID || s.active[listing.PropertyID] != listing.ID {
		return fmt.Errorf("sale of listing %s could not be settled: %w", settlement.Listing.ID, storage.ErrConditionFailed)
	}
	var bid *models.Bid
	if settlement.Bid != nil {
		bid, ok = s.bids[settlement.Bid.ID]
		if !ok || bid.Status != models.BidActive {
			return fmt.Errorf("sale of listing %s could not be settled: %w", settlement.Listing.ID, storage.ErrConditionFailed)
		}
	}

	at := settlement.At
	payment.Status = models.PaymentCompleted
	payment.UpdatedAt = at
	listing.Status = models.ListingSold
	listing.SoldPaymentID = payment.ID
	listing.SettlementPaymentID = ""
	listing.Version++
	listing.UpdatedAt = at
	delete(s.active, listing.PropertyID)
	if bid != nil {
		bid.Status = models.BidWon
		bid.UpdatedAt = at
	}

	settlement.Payment.Status = payment.Status
	settlement.Payment.UpdatedAt = at
	*settlement.Listing = *listing.Clone()
	if settlement.Bid != nil {
		settlement.Bid.Status = models.BidWon
		settlement.Bid.UpdatedAt = at
	}
	return nil
}
