package dynamodb

import (
	"fmt"
	"time"

	"github.com/chris/property-settlement/pkg/models"
	"github.com/shopspring/decimal"
)

// Amounts are stored as decimal strings so no precision is lost to DynamoDB numbers.

type listingItem struct {
	ID                  string     `dynamodbav:"id"`
	PropertyID          string     `dynamodbav:"property_id"`
	SellerID            string     `dynamodbav:"seller_id"`
	Kind                string     `dynamodbav:"kind"`
	PriceAmount         string     `dynamodbav:"price_amount"`
	PriceCurrency       string     `dynamodbav:"price_currency"`
	EndsAt              *time.Time `dynamodbav:"ends_at,omitempty"`
	Status              string     `dynamodbav:"status"`
	SettlementPaymentID string     `dynamodbav:"settlement_payment_id,omitempty"`
	SoldPaymentID       string     `dynamodbav:"sold_payment_id,omitempty"`
	HighBidID           string     `dynamodbav:"high_bid_id,omitempty"`
	Version             int64      `dynamodbav:"version"`
	CreatedAt           time.Time  `dynamodbav:"created_at"`
	UpdatedAt           time.Time  `dynamodbav:"updated_at"`
}

type activeListingItem struct {
	PropertyID string    `dynamodbav:"property_id"`
	ListingID  string    `dynamodbav:"listing_id"`
	CreatedAt  time.Time `dynamodbav:"created_at"`
}

type bidItem struct {
	ID        string    `dynamodbav:"id"`
	ListingID string    `dynamodbav:"listing_id"`
	BidderID  string    `dynamodbav:"bidder_id"`
	Amount    string    `dynamodbav:"amount"`
	Currency  string    `dynamodbav:"currency"`
	Status    string    `dynamodbav:"status"`
	CreatedAt time.Time `dynamodbav:"created_at"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}

type paymentItem struct {
	ID            string    `dynamodbav:"id"`
	PayerID       string    `dynamodbav:"payer_id"`
	ListingID     string    `dynamodbav:"listing_id"`
	BidID         string    `dynamodbav:"bid_id,omitempty"`
	Type          string    `dynamodbav:"type"`
	Amount        string    `dynamodbav:"amount"`
	Currency      string    `dynamodbav:"currency"`
	Status        string    `dynamodbav:"status"`
	EscrowID      string    `dynamodbav:"escrow_id,omitempty"`
	ExternalRef   string    `dynamodbav:"external_ref,omitempty"`
	FailureReason string    `dynamodbav:"failure_reason,omitempty"`
	CreatedAt     time.Time `dynamodbav:"created_at"`
	UpdatedAt     time.Time `dynamodbav:"updated_at"`
}

type escrowItem struct {
	ID                 string     `dynamodbav:"id"`
	PaymentID          string     `dynamodbav:"payment_id"`
	ListingID          string     `dynamodbav:"listing_id"`
	BuyerID            string     `dynamodbav:"buyer_id"`
	SellerID           string     `dynamodbav:"seller_id"`
	Amount             string     `dynamodbav:"amount"`
	Currency           string     `dynamodbav:"currency"`
	Status             string     `dynamodbav:"status"`
	DisputeReason      string     `dynamodbav:"dispute_reason,omitempty"`
	DisputeDescription string     `dynamodbav:"dispute_description,omitempty"`
	DisputedBy         string     `dynamodbav:"disputed_by,omitempty"`
	ReleaseProof       string     `dynamodbav:"release_proof,omitempty"`
	CreatedAt          time.Time  `dynamodbav:"created_at"`
	UpdatedAt          time.Time  `dynamodbav:"updated_at"`
	ReleasedAt         *time.Time `dynamodbav:"released_at,omitempty"`
}

func parseMoney(amount, currency string) (models.Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Money{}, fmt.Errorf("failed to parse stored amount %q: %w", amount, err)
	}
	return models.Money{Amount: d, Currency: currency}, nil
}

func toListingItem(l *models.Listing) listingItem {
	return listingItem{
		ID:                  l.ID,
		PropertyID:          l.PropertyID,
		SellerID:            l.SellerID,
		Kind:                string(l.Kind),
		PriceAmount:         l.Price.Amount.String(),
		PriceCurrency:       l.Price.Currency,
		EndsAt:              l.EndsAt,
		Status:              string(l.Status),
		SettlementPaymentID: l.SettlementPaymentID,
		SoldPaymentID:       l.SoldPaymentID,
		Version:             l.Version,
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
	}
}

func (i listingItem) toModel() (*models.Listing, error) {
	price, err := parseMoney(i.PriceAmount, i.PriceCurrency)
	if err != nil {
		return nil, err
	}
	return &models.Listing{
		ID:                  i.ID,
		PropertyID:          i.PropertyID,
		SellerID:            i.SellerID,
		Kind:                models.ListingKind(i.Kind),
		Price:               price,
		EndsAt:              i.EndsAt,
		Status:              models.ListingStatus(i.Status),
		SettlementPaymentID: i.SettlementPaymentID,
		SoldPaymentID:       i.SoldPaymentID,
		Version:             i.Version,
		CreatedAt:           i.CreatedAt,
		UpdatedAt:           i.UpdatedAt,
	}, nil
}

func toBidItem(b *models.Bid) bidItem {
	return bidItem{
		ID:        b.ID,
		ListingID: b.ListingID,
		BidderID:  b.BidderID,
		Amount:    b.Amount.Amount.String(),
		Currency:  b.Amount.Currency,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (i bidItem) toModel() (*models.Bid, error) {
	amount, err := parseMoney(i.Amount, i.Currency)
	if err != nil {
		return nil, err
	}
	return &models.Bid{
		ID:        i.ID,
		ListingID: i.ListingID,
		BidderID:  i.BidderID,
		Amount:    amount,
		Status:    models.BidStatus(i.Status),
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}, nil
}

func toPaymentItem(p *models.Payment) paymentItem {
	return paymentItem{
		ID:            p.ID,
		PayerID:       p.PayerID,
		ListingID:     p.ListingID,
		BidID:         p.BidID,
		Type:          string(p.Type),
		Amount:        p.Amount.Amount.String(),
		Currency:      p.Amount.Currency,
		Status:        string(p.Status),
		EscrowID:      p.EscrowID,
		ExternalRef:   p.ExternalRef,
		FailureReason: p.FailureReason,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (i paymentItem) toModel() (*models.Payment, error) {
	amount, err := parseMoney(i.Amount, i.Currency)
	if err != nil {
		return nil, err
	}
	return &models.Payment{
		ID:            i.ID,
		PayerID:       i.PayerID,
		ListingID:     i.ListingID,
		BidID:         i.BidID,
		Type:          models.PaymentType(i.Type),
		Amount:        amount,
		Status:        models.PaymentStatus(i.Status),
		EscrowID:      i.EscrowID,
		ExternalRef:   i.ExternalRef,
		FailureReason: i.FailureReason,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}, nil
}

func toEscrowItem(e *models.Escrow) escrowItem {
	return escrowItem{
		ID:                 e.ID,
		PaymentID:          e.PaymentID,
		ListingID:          e.ListingID,
		BuyerID:            e.BuyerID,
		SellerID:           e.SellerID,
		Amount:             e.Amount.Amount.String(),
		Currency:           e.Amount.Currency,
		Status:             string(e.Status),
		DisputeReason:      e.DisputeReason,
		DisputeDescription: e.DisputeDescription,
		DisputedBy:         e.DisputedBy,
		ReleaseProof:       e.ReleaseProof,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
		ReleasedAt:         e.ReleasedAt,
	}
}

func (i escrowItem) toModel() (*models.Escrow, error) {
	amount, err := parseMoney(i.Amount, i.Currency)
	if err != nil {
		return nil, err
	}
	return &models.Escrow{
		ID:                 i.ID,
		PaymentID:          i.PaymentID,
		ListingID:          i.ListingID,
		BuyerID:            i.BuyerID,
		SellerID:           i.SellerID,
		Amount:             amount,
		Status:             models.EscrowStatus(i.Status),
		DisputeReason:      i.DisputeReason,
		DisputeDescription: i.DisputeDescription,
		DisputedBy:         i.DisputedBy,
		ReleaseProof:       i.ReleaseProof,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
		ReleasedAt:         i.ReleasedAt,
	}, nil
}
