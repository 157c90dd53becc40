package listings

import (
	"context"
	"net/http"

	"github.com/chris/property-settlement/pkg/api"
	"github.com/chris/property-settlement/pkg/handlers/respond"
	listingsvc "github.com/chris/property-settlement/pkg/listings"
	"github.com/chris/property-settlement/pkg/mapping"
	"github.com/chris/property-settlement/pkg/models"
)

//go:generate mockery --name Service --output ./mocks --outpkg mocks

// Service is the listing lifecycle as seen by the HTTP layer.
type Service interface {
	Create(ctx context.Context, in listingsvc.CreateInput) (*models.Listing, error)
	Get(ctx context.Context, listingID string) (*models.Listing, error)
	Cancel(ctx context.Context, listingID, actor string) (*models.Listing, error)
}

// ListingsHandler holds the dependencies for listing-related handlers.
type ListingsHandler struct {
	Service Service
}

// NewListingsHandler creates a new ListingsHandler.
func NewListingsHandler(service Service) *ListingsHandler {
	return &ListingsHandler{Service: service}
}

// CreateListing lists a property for sale on behalf of the acting seller.
func (h *ListingsHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}
	var newListing api.NewListing
	if !respond.Decode(w, r, &newListing, false) {
		return
	}

	in, err := mapping.ToDomainNewListing(&newListing, actor)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	listing, err := h.Service.Create(r.Context(), in)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiListing(listing))
}

// GetListing returns a listing with any due expiry applied.
func (h *ListingsHandler) GetListing(w http.ResponseWriter, r *http.Request, listingId api.ListingId) {
	listing, err := h.Service.Get(r.Context(), listingId.String())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiListing(listing))
}

// CancelListing withdraws the acting seller's listing.
func (h *ListingsHandler) CancelListing(w http.ResponseWriter, r *http.Request, listingId api.ListingId) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}
	listing, err := h.Service.Cancel(r.Context(), listingId.String(), actor)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiListing(listing))
}
