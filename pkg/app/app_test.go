package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/chris/property-settlement/pkg/config"
	"github.com/chris/property-settlement/pkg/listings"
	"github.com/chris/property-settlement/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestBuild(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Memory Backend", func(t *testing.T) {
		cfg, err := config.FromEnv(envOf(map[string]string{"STORAGE_BACKEND": "memory"}))
		require.NoError(t, err)

		services, err := Build(context.Background(), cfg, logger)
		require.NoError(t, err)

		listing, err := services.Listings.Create(context.Background(), listings.CreateInput{
			PropertyID: "property-1",
			SellerID:   "seller-1",
			Kind:       models.FixedPrice,
			Price:      models.MustMoney("1000", "USD"),
		})
		require.NoError(t, err)
		assert.Equal(t, models.ListingActive, listing.Status)
	})

	t.Run("Invalid Config", func(t *testing.T) {
		cfg, err := config.FromEnv(envOf(map[string]string{"STORAGE_BACKEND": "dynamodb"}))
		require.NoError(t, err)

		_, err = Build(context.Background(), cfg, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DYNAMODB_LISTINGS_TABLE_NAME is not set")
	})
}
