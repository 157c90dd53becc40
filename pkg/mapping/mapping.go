// Package mapping converts between the HTTP API models and the domain models.
package mapping

import (
	"time"

	"github.com/chris/property-settlement/pkg/api"
	"github.com/chris/property-settlement/pkg/listings"
	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/payments"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseUUID maps stored IDs onto the API's UUID type. IDs minted by this service
// are always UUIDs; anything else maps to the nil UUID.
func parseUUID(id string) openapi_types.UUID {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil
	}
	return parsed
}

// ToApiMoney converts a domain Money to the API representation.
func ToApiMoney(m models.Money) api.Money {
	return api.Money{Amount: m.Amount.String(), Currency: m.Currency}
}

// ToDomainMoney parses an API Money.
func ToDomainMoney(m api.Money) (models.Money, error) {
	money, err := models.NewMoney(m.Amount, m.Currency)
	if err != nil {
		return models.Money{}, models.ValidationError("money", "%v", err)
	}
	return money, nil
}

// ToApiListing converts a domain Listing to an API Listing.
func ToApiListing(l *models.Listing) *api.Listing {
	return &api.Listing{
		Id:                  parseUUID(l.ID),
		PropertyId:          l.PropertyID,
		SellerId:            l.SellerID,
		Kind:                api.ListingKind(l.Kind),
		Price:               ToApiMoney(l.Price),
		Status:              api.ListingStatus(l.Status),
		EndsAt:              l.EndsAt,
		SettlementPaymentId: optional(l.SettlementPaymentID),
		SoldPaymentId:       optional(l.SoldPaymentID),
		Version:             l.Version,
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
	}
}

// ToDomainNewListing converts an API NewListing into the manager's input. The
// seller is the acting user.
func ToDomainNewListing(n *api.NewListing, sellerID string) (listings.CreateInput, error) {
	price, err := ToDomainMoney(n.Price)
	if err != nil {
		return listings.CreateInput{}, err
	}
	in := listings.CreateInput{
		PropertyID: n.PropertyId,
		SellerID:   sellerID,
		Kind:       models.ListingKind(n.Kind),
		Price:      price,
	}
	if n.DurationSeconds != nil {
		seconds := *n.DurationSeconds
		if seconds <= 0 || seconds > int64(listings.MaxAuctionDuration/time.Second) {
			return listings.CreateInput{}, models.ValidationError("listing", "duration_seconds must be between 1 and %d", int64(listings.MaxAuctionDuration/time.Second))
		}
		d := time.Duration(seconds) * time.Second
		in.Duration = &d
	}
	return in, nil
}

// ToApiBid converts a domain Bid to an API Bid.
func ToApiBid(b *models.Bid) *api.Bid {
	return &api.Bid{
		Id:        parseUUID(b.ID),
		ListingId: parseUUID(b.ListingID),
		BidderId:  b.BidderID,
		Amount:    ToApiMoney(b.Amount),
		Status:    api.BidStatus(b.Status),
		CreatedAt: b.CreatedAt,
	}
}

// ToApiBids converts a slice of domain Bids.
func ToApiBids(bids []models.Bid) []*api.Bid {
	out := make([]*api.Bid, len(bids))
	for i := range bids {
		out[i] = ToApiBid(&bids[i])
	}
	return out
}

// ToApiPayment converts a domain Payment to an API Payment.
func ToApiPayment(p *models.Payment) *api.Payment {
	return &api.Payment{
		Id:            parseUUID(p.ID),
		PayerId:       p.PayerID,
		ListingId:     parseUUID(p.ListingID),
		BidId:         optional(p.BidID),
		Method:        api.PaymentMethod(p.Type),
		Amount:        ToApiMoney(p.Amount),
		Status:        api.PaymentStatus(p.Status),
		EscrowId:      optional(p.EscrowID),
		ExternalRef:   optional(p.ExternalRef),
		FailureReason: optional(p.FailureReason),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToDomainNewPayment converts an API NewPayment into the orchestrator's input. The
// payer is the acting user.
func ToDomainNewPayment(n *api.NewPayment, payerID string) (payments.InitiateInput, error) {
	amount, err := ToDomainMoney(n.Amount)
	if err != nil {
		return payments.InitiateInput{}, err
	}
	return payments.InitiateInput{
		ListingID: n.ListingId.String(),
		PayerID:   payerID,
		Amount:    amount,
		Method:    models.PaymentType(n.Method),
	}, nil
}

// ToApiEscrow converts a domain Escrow to an API Escrow.
func ToApiEscrow(e *models.Escrow) *api.Escrow {
	return &api.Escrow{
		Id:                 parseUUID(e.ID),
		PaymentId:          parseUUID(e.PaymentID),
		ListingId:          parseUUID(e.ListingID),
		BuyerId:            e.BuyerID,
		SellerId:           e.SellerID,
		Amount:             ToApiMoney(e.Amount),
		Status:             api.EscrowStatus(e.Status),
		DisputeReason:      optional(e.DisputeReason),
		DisputeDescription: optional(e.DisputeDescription),
		DisputedBy:         optional(e.DisputedBy),
		ReleaseProof:       optional(e.ReleaseProof),
		ReleasedAt:         e.ReleasedAt,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}
