package memory

import (
	"context"
	"testing"
	"time"

	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListing(id, property string) *models.Listing {
	now := time.Now().UTC()
	return &models.Listing{
		ID:         id,
		PropertyID: property,
		SellerID:   "seller-1",
		Kind:       models.Auction,
		Price:      models.MustMoney("1000", "USD"),
		Status:     models.ListingActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestCreateListingClaimsProperty(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.CreateListing(ctx, newListing("l1", "p1")))
	err := store.CreateListing(ctx, newListing("l2", "p1"))
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	id, err := store.GetActiveListingID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "l1", id)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := New()
	require.NoError(t, store.CreateListing(ctx, newListing("l1", "p1")))

	got, err := store.GetListing(ctx, "l1")
	require.NoError(t, err)
	got.Status = models.ListingSold

	again, err := store.GetListing(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, models.ListingActive, again.Status)
}

func TestFinalizeListingReleasesProperty(t *testing.T) {
	ctx := context.Background()
	store := New()
	listing := newListing("l1", "p1")
	require.NoError(t, store.CreateListing(ctx, listing))

	stale := listing.Clone()
	listing.Status = models.ListingCancelled
	require.NoError(t, store.FinalizeListing(ctx, listing, ""))
	assert.Equal(t, int64(1), listing.Version)

	stale.Status = models.ListingExpired
	assert.ErrorIs(t, store.FinalizeListing(ctx, stale, ""), storage.ErrConditionFailed)

	_, err := store.GetActiveListingID(ctx, "p1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, store.CreateListing(ctx, newListing("l2", "p1")))
}

func TestAcceptBidGuardsVersion(t *testing.T) {
	ctx := context.Background()
	store := New()
	listing := newListing("l1", "p1")
	require.NoError(t, store.CreateListing(ctx, listing))

	first := &models.Bid{ID: "b1", ListingID: "l1", BidderID: "u1", Amount: models.MustMoney("10", "USD"), Status: models.BidActive, CreatedAt: time.Now()}
	second := &models.Bid{ID: "b2", ListingID: "l1", BidderID: "u2", Amount: models.MustMoney("20", "USD"), Status: models.BidActive, CreatedAt: time.Now().Add(time.Second)}

	stale := listing.Clone()
	require.NoError(t, store.AcceptBid(ctx, listing, first, nil))
	assert.ErrorIs(t, store.AcceptBid(ctx, stale, second, nil), storage.ErrConditionFailed)

	require.NoError(t, store.AcceptBid(ctx, listing, second, []models.Bid{*first}))
	active, err := store.GetActiveBids(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "b2", active[0].ID)

	prev, err := store.GetBid(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BidOutbid, prev.Status)
}

func TestClaimAndReleaseSettlement(t *testing.T) {
	ctx := context.Background()
	store := New()
	listing := newListing("l1", "p1")
	require.NoError(t, store.CreateListing(ctx, listing))

	require.NoError(t, store.ClaimSettlement(ctx, listing, "pay-1"))
	assert.ErrorIs(t, store.ClaimSettlement(ctx, listing, "pay-2"), storage.ErrConditionFailed)
	assert.ErrorIs(t, store.ReleaseSettlement(ctx, "l1", "pay-2"), storage.ErrConditionFailed)
	require.NoError(t, store.ReleaseSettlement(ctx, "l1", "pay-1"))

	got, err := store.GetListing(ctx, "l1")
	require.NoError(t, err)
	assert.False(t, got.HasSettlementClaim())
}

func TestUpdatePaymentEscrowLink(t *testing.T) {
	ctx := context.Background()
	store := New()
	payment := &models.Payment{ID: "pay-1", ListingID: "l1", Status: models.PaymentProcessing}
	require.NoError(t, store.CreatePayment(ctx, payment))

	linked := *payment
	linked.EscrowID = "esc-1"
	require.NoError(t, store.UpdatePayment(ctx, &linked, models.PaymentProcessing))

	failed := *payment
	failed.Status = models.PaymentFailed
	assert.ErrorIs(t, store.UpdatePayment(ctx, &failed, models.PaymentProcessing), storage.ErrConditionFailed)
}

func TestFindPaymentByExternalRef(t *testing.T) {
	ctx := context.Background()
	store := New()
	require.NoError(t, store.CreatePayment(ctx, &models.Payment{ID: "pay-1", ListingID: "l1", Status: models.PaymentPending}))

	processing := &models.Payment{ID: "pay-1", ListingID: "l1", Status: models.PaymentProcessing, ExternalRef: "0xabc"}
	require.NoError(t, store.UpdatePayment(ctx, processing, models.PaymentPending))

	found, err := store.FindPaymentByExternalRef(ctx, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "pay-1", found.ID)

	_, err = store.FindPaymentByExternalRef(ctx, "0xdef")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.FindPaymentByExternalRef(ctx, "")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSettleSaleIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := New()
	listing := newListing("l1", "p1")
	listing.Kind = models.FixedPrice
	require.NoError(t, store.CreateListing(ctx, listing))
	require.NoError(t, store.ClaimSettlement(ctx, listing, "pay-1"))
	payment := &models.Payment{ID: "pay-1", ListingID: "l1", Status: models.PaymentProcessing, EscrowID: "esc-1"}
	require.NoError(t, store.CreatePayment(ctx, payment))

	err := store.SettleSale(ctx, storage.Settlement{EscrowID: "esc-other", Payment: payment, Listing: listing, At: time.Now()})
	assert.ErrorIs(t, err, storage.ErrConditionFailed)
	got, _ := store.GetListing(ctx, "l1")
	assert.Equal(t, models.ListingActive, got.Status)

	require.NoError(t, store.SettleSale(ctx, storage.Settlement{EscrowID: "esc-1", Payment: payment, Listing: listing, At: time.Now()}))
	got, _ = store.GetListing(ctx, "l1")
	assert.Equal(t, models.ListingSold, got.Status)
	assert.Equal(t, "pay-1", got.SoldPaymentID)
	stored, _ := store.GetPayment(ctx, "pay-1")
	assert.Equal(t, models.PaymentCompleted, stored.Status)
	_, err = store.GetActiveListingID(ctx, "p1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
