package bids

import (
	"context"
	"net/http"

	"github.com/chris/property-settlement/pkg/api"
	"github.com/chris/property-settlement/pkg/handlers/respond"
	"github.com/chris/property-settlement/pkg/mapping"
	"github.com/chris/property-settlement/pkg/models"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

//go:generate mockery --name Service --output ./mocks --outpkg mocks

// Service is the bid engine as seen by the HTTP layer.
type Service interface {
	PlaceBid(ctx context.Context, listingID, bidderID string, amount models.Money) (*models.Bid, error)
	CancelBid(ctx context.Context, bidID, actor string) (*models.Bid, error)
	ListBids(ctx context.Context, listingID string) ([]models.Bid, error)
}

// BidsHandler holds the dependencies for bid-related handlers.
type BidsHandler struct {
	Service Service
}

// NewBidsHandler creates a new BidsHandler.
func NewBidsHandler(service Service) *BidsHandler {
	return &BidsHandler{Service: service}
}

// PlaceBid bids on an auction on behalf of the acting user.
func (h *BidsHandler) PlaceBid(w http.ResponseWriter, r *http.Request, listingId api.ListingId) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}
	var newBid api.NewBid
	if !respond.Decode(w, r, &newBid, false) {
		return
	}
	amount, err := mapping.ToDomainMoney(newBid.Amount)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	bid, err := h.Service.PlaceBid(r.Context(), listingId.String(), actor, amount)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiBid(bid))
}

// ListBids returns every bid on a listing, oldest first.
func (h *BidsHandler) ListBids(w http.ResponseWriter, r *http.Request, listingId api.ListingId) {
	bids, err := h.Service.ListBids(r.Context(), listingId.String())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiBids(bids))
}

// CancelBid withdraws the acting user's bid.
func (h *BidsHandler) CancelBid(w http.ResponseWriter, r *http.Request, bidId openapi_types.UUID) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}
	bid, err := h.Service.CancelBid(r.Context(), bidId.String(), actor)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiBid(bid))
}
