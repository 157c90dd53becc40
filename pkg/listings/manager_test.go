package listings

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/chris/property-settlement/pkg/directory"
	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store   *memory.Store
	manager *Manager
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memory.New(), now: testNow}
	dir := directory.NewStatic([]string{"property-1", "property-2"}, []string{"seller-1", "buyer-1"})
	f.manager = NewManager(f.store, dir, slog.New(slog.NewTextHandler(io.Discard, nil)), Options{
		SettlementGrace: 24 * time.Hour,
		Now:             func() time.Time { return f.now },
	})
	return f
}

func fixedPrice(property string) CreateInput {
	return CreateInput{
		PropertyID: property,
		SellerID:   "seller-1",
		Kind:       models.FixedPrice,
		Price:      models.MustMoney("250000", "usd"),
	}
}

func auction(property string, d time.Duration) CreateInput {
	return CreateInput{
		PropertyID: property,
		SellerID:   "seller-1",
		Kind:       models.Auction,
		Price:      models.MustMoney("100000", "USD"),
		Duration:   &d,
	}
}

// placeBid stores an active bid directly, bumping the listing version as the
// bid engine would.
func (f *fixture) placeBid(t *testing.T, listing *models.Listing, id, bidder, amount string) *models.Bid {
	t.Helper()
	current, err := f.store.GetListing(context.Background(), listing.ID)
	require.NoError(t, err)
	bid := &models.Bid{
		ID:        id,
		ListingID: listing.ID,
		BidderID:  bidder,
		Amount:    models.MustMoney(amount, "USD"),
		Status:    models.BidActive,
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	require.NoError(t, f.store.AcceptBid(context.Background(), current, bid, nil))
	return bid
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active fixed-price listing", func(t *testing.T) {
		f := newFixture(t)

		listing, err := f.manager.Create(ctx, fixedPrice("property-1"))
		require.NoError(t, err)
		assert.Equal(t, models.ListingActive, listing.Status)
		assert.Equal(t, "USD", listing.Price.Currency)
		assert.Nil(t, listing.EndsAt)
	})

	t.Run("auction ends after its duration", func(t *testing.T) {
		f := newFixture(t)

		listing, err := f.manager.Create(ctx, auction("property-1", 48*time.Hour))
		require.NoError(t, err)
		require.NotNil(t, listing.EndsAt)
		assert.Equal(t, testNow.Add(48*time.Hour), *listing.EndsAt)
	})

	t.Run("second active listing for a property conflicts", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.manager.Create(ctx, fixedPrice("property-1"))
		require.NoError(t, err)
		_, err = f.manager.Create(ctx, auction("property-1", time.Hour))
		assert.ErrorIs(t, err, models.ErrConflict)

		_, err = f.manager.Create(ctx, fixedPrice("property-2"))
		assert.NoError(t, err)
	})

	t.Run("lapsed auction frees its property", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.manager.Create(ctx, auction("property-1", time.Hour))
		require.NoError(t, err)
		f.now = f.now.Add(2 * time.Hour)

		_, err = f.manager.Create(ctx, fixedPrice("property-1"))
		require.NoError(t, err)

		expired, err := f.manager.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ListingExpired, expired.Status)
	})

	tests := []struct {
		name    string
		mutate  func(in *CreateInput)
		wantErr error
	}{
		{"zero price", func(in *CreateInput) { in.Price = models.MustMoney("0", "USD") }, models.ErrValidation},
		{"missing currency", func(in *CreateInput) { in.Price.Currency = " " }, models.ErrValidation},
		{"unknown kind", func(in *CreateInput) { in.Kind = "lottery" }, models.ErrValidation},
		{"fixed price with duration", func(in *CreateInput) { d := time.Hour; in.Duration = &d }, models.ErrValidation},
		{"unknown property", func(in *CreateInput) { in.PropertyID = "property-9" }, models.ErrNotFound},
		{"unknown seller", func(in *CreateInput) { in.SellerID = "stranger" }, models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := fixedPrice("property-1")
			tt.mutate(&in)

			_, err := f.manager.Create(ctx, in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("auction without duration", func(t *testing.T) {
		f := newFixture(t)
		in := auction("property-1", time.Hour)
		in.Duration = nil

		_, err := f.manager.Create(ctx, in)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("auction longer than the maximum", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.manager.Create(ctx, auction("property-1", MaxAuctionDuration+time.Second))
		assert.ErrorIs(t, err, models.ErrValidation)

		_, err = f.manager.Create(ctx, auction("property-1", MaxAuctionDuration))
		assert.NoError(t, err)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("seller cancels and the standing bid is released", func(t *testing.T) {
		f := newFixture(t)
		listing, err := f.manager.Create(ctx, auction("property-1", time.Hour))
		require.NoError(t, err)
		bid := f.placeBid(t, listing, "bid-1", "buyer-1", "110000")

		cancelled, err := f.manager.Cancel(ctx, listing.ID, "seller-1")
		require.NoError(t, err)
		assert.Equal(t, models.ListingCancelled, cancelled.Status)

		stored, err := f.store.GetBid(ctx, bid.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BidCancelled, stored.Status)

		_, err = f.store.GetActiveListingID(ctx, "property-1")
		assert.Error(t, err)
	})

	t.Run("only the seller may cancel", func(t *testing.T) {
		f := newFixture(t)
		listing, err := f.manager.Create(ctx, fixedPrice("property-1"))
		require.NoError(t, err)

		_, err = f.manager.Cancel(ctx, listing.ID, "buyer-1")
		assert.ErrorIs(t, err, models.ErrAuthorization)
	})

	t.Run("cancelled listing cannot be cancelled again", func(t *testing.T) {
		f := newFixture(t)
		listing, err := f.manager.Create(ctx, fixedPrice("property-1"))
		require.NoError(t, err)
		_, err = f.manager.Cancel(ctx, listing.ID, "seller-1")
		require.NoError(t, err)

		_, err = f.manager.Cancel(ctx, listing.ID, "seller-1")
		assert.ErrorIs(t, err, models.ErrInvalidState)
		assert.Equal(t, string(models.ListingCancelled), models.StatusOf(err))
	})

	t.Run("claimed listing cannot be cancelled", func(t *testing.T) {
		f := newFixture(t)
		listing, err := f.manager.Create(ctx, fixedPrice("property-1"))
		require.NoError(t, err)
		require.NoError(t, f.store.ClaimSettlement(ctx, listing, "payment-1"))

		_, err = f.manager.Cancel(ctx, listing.ID, "seller-1")
		assert.ErrorIs(t, err, models.ErrInvalidState)
	})

	t.Run("unknown listing", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.manager.Cancel(ctx, "missing", "seller-1")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()

	t.Run("auction without bids expires at its end", func(t *testing.T) {
		f := newFixture(t)
		listing, err := f.manager.Create(ctx, auction("property-1", time.Hour))
		require.NoError(t, err)

		_, err = f.manager.Expire(ctx, listing.ID)
		assert.ErrorIs(t, err, models.ErrInvalidState)

		f.now = f.now.Add(time.Hour)
		expired, err := f.manager.Expire(ctx, listing.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ListingExpired, expired.Status)

		again, err := f.manager.Expire(ctx, listing.ID)
		require.NoError(t, err)
		assert.Equal(t, expired.Version, again.Version)
	})

	t.Run("auction with a standing bid waits out the grace period", func(t *testing.T) {
		f := newFixture(t)
		listing, err := f.manager.Create(ctx, auction("property-1", time.Hour))
		require.NoError(t, err)
		bid := f.placeBid(t, listing, "bid-1", "buyer-1", "110000")

		f.now = f.now.Add(2 * time.Hour)
		got, err := f.manager.Get(ctx, listing.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ListingActive, got.Status)

		f.now = f.now.Add(24 * time.Hour)
		got, err = f.manager.Get(ctx, listing.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ListingExpired, got.Status)

		stored, err := f.store.GetBid(ctx, bid.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BidCancelled, stored.Status)
	})

	t.Run("unset grace falls back to the default", func(t *testing.T) {
		f := newFixture(t)
		dir := directory.NewStatic([]string{"property-1"}, []string{"seller-1", "buyer-1"})
		f.manager = NewManager(f.store, dir, slog.New(slog.NewTextHandler(io.Discard, nil)), Options{
			Now: func() time.Time { return f.now },
		})
		listing, err := f.manager.Create(ctx, auction("property-1", time.Hour))
		require.NoError(t, err)
		f.placeBid(t, listing, "bid-1", "buyer-1", "110000")

		f.now = f.now.Add(time.Hour + DefaultSettlementGrace - time.Minute)
		got, err := f.manager.Get(ctx, listing.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ListingActive, got.Status)

		f.now = f.now.Add(time.Minute)
		got, err = f.manager.Get(ctx, listing.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ListingExpired, got.Status)
	})

	t.Run("claimed auction never expires", func(t *testing.T) {
		f := newFixture(t)
		listing, err := f.manager.Create(ctx, auction("property-1", time.Hour))
		require.NoError(t, err)
		require.NoError(t, f.store.ClaimSettlement(ctx, listing, "payment-1"))

		f.now = f.now.Add(30 * 24 * time.Hour)
		got, err := f.manager.Get(ctx, listing.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ListingActive, got.Status)
	})

	t.Run("fixed-price listings cannot expire", func(t *testing.T) {
		f := newFixture(t)
		listing, err := f.manager.Create(ctx, fixedPrice("property-1"))
		require.NoError(t, err)

		f.now = f.now.Add(365 * 24 * time.Hour)
		_, err = f.manager.Expire(ctx, listing.ID)
		assert.ErrorIs(t, err, models.ErrInvalidState)
	})
}

func TestSweepExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	quiet, err := f.manager.Create(ctx, auction("property-1", time.Hour))
	require.NoError(t, err)
	contested, err := f.manager.Create(ctx, auction("property-2", time.Hour))
	require.NoError(t, err)
	f.placeBid(t, contested, "bid-1", "buyer-1", "120000")

	f.now = f.now.Add(2 * time.Hour)
	n, err := f.manager.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.store.GetListing(ctx, quiet.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingExpired, got.Status)

	f.now = f.now.Add(48 * time.Hour)
	n, err = f.manager.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = f.manager.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClose(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, paymentStatus models.PaymentStatus, escrowStatus models.EscrowStatus) (*fixture, *models.Listing) {
		f := newFixture(t)
		listing, err := f.manager.Create(ctx, fixedPrice("property-1"))
		require.NoError(t, err)
		escrowID := models.EscrowIDForPayment("payment-1")
		require.NoError(t, f.store.CreatePayment(ctx, &models.Payment{
			ID:        "payment-1",
			PayerID:   "buyer-1",
			ListingID: listing.ID,
			Type:      models.Fiat,
			Amount:    listing.Price,
			Status:    paymentStatus,
			EscrowID:  escrowID,
		}))
		require.NoError(t, f.store.CreateEscrow(ctx, &models.Escrow{
			ID:        escrowID,
			PaymentID: "payment-1",
			ListingID: listing.ID,
			BuyerID:   "buyer-1",
			SellerID:  "seller-1",
			Amount:    listing.Price,
			Status:    escrowStatus,
		}))
		return f, listing
	}

	t.Run("closes once the payment completed under a released escrow", func(t *testing.T) {
		f, listing := setup(t, models.PaymentCompleted, models.EscrowReleased)

		sold, err := f.manager.Close(ctx, listing.ID, "payment-1")
		require.NoError(t, err)
		assert.Equal(t, models.ListingSold, sold.Status)
		assert.Equal(t, "payment-1", sold.SoldPaymentID)

		again, err := f.manager.Close(ctx, listing.ID, "payment-1")
		require.NoError(t, err)
		assert.Equal(t, sold.Version, again.Version)

		_, err = f.manager.Close(ctx, listing.ID, "payment-2")
		assert.ErrorIs(t, err, models.ErrInvalidState)
	})

	t.Run("processing payment cannot close the listing", func(t *testing.T) {
		f, listing := setup(t, models.PaymentProcessing, models.EscrowActive)

		_, err := f.manager.Close(ctx, listing.ID, "payment-1")
		assert.ErrorIs(t, err, models.ErrInvalidState)
		assert.Equal(t, string(models.ListingActive), models.StatusOf(err))
	})

	t.Run("unreleased escrow cannot close the listing", func(t *testing.T) {
		f, listing := setup(t, models.PaymentCompleted, models.EscrowDisputed)

		_, err := f.manager.Close(ctx, listing.ID, "payment-1")
		assert.ErrorIs(t, err, models.ErrInvalidState)
	})

	t.Run("unknown payment", func(t *testing.T) {
		f, listing := setup(t, models.PaymentCompleted, models.EscrowReleased)

		_, err := f.manager.Close(ctx, listing.ID, "payment-9")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
