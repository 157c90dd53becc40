package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, BackendDynamoDB, cfg.StorageBackend)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 5, cfg.BidMaxAttempts)
	assert.Equal(t, 72*time.Hour, cfg.SettlementGrace)
	assert.Equal(t, 20*time.Minute, cfg.StuckSagaThreshold)
	assert.Equal(t, uint64(12), cfg.EthMinConfirmations)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{
		"STORAGE_BACKEND":  "Memory",
		"LOG_LEVEL":        "debug",
		"BID_MAX_ATTEMPTS": "9",
		"SETTLEMENT_GRACE": "1h30m",
	}))
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 9, cfg.BidMaxAttempts)
	assert.Equal(t, 90*time.Minute, cfg.SettlementGrace)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvRejectsMalformedValues(t *testing.T) {
	_, err := FromEnv(envFrom(map[string]string{
		"BID_MAX_ATTEMPTS": "many",
		"SETTLEMENT_GRACE": "soon",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BID_MAX_ATTEMPTS")
	assert.Contains(t, err.Error(), "SETTLEMENT_GRACE")
}

func TestValidate(t *testing.T) {
	t.Run("DynamoDB Requires Tables", func(t *testing.T) {
		cfg, err := FromEnv(envFrom(map[string]string{"DYNAMODB_LISTINGS_TABLE_NAME": "listings"}))
		require.NoError(t, err)

		err = cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DYNAMODB_BIDS_TABLE_NAME")
		assert.NotContains(t, err.Error(), "DYNAMODB_LISTINGS_TABLE_NAME")
	})

	t.Run("Settlement Grace Must Be Positive", func(t *testing.T) {
		for _, grace := range []string{"0s", "-1h"} {
			cfg, err := FromEnv(envFrom(map[string]string{"STORAGE_BACKEND": "memory", "SETTLEMENT_GRACE": grace}))
			require.NoError(t, err)

			err = cfg.Validate()
			require.Error(t, err, grace)
			assert.Contains(t, err.Error(), "SETTLEMENT_GRACE")
		}
	})

	t.Run("Ethereum Requires Collector", func(t *testing.T) {
		env := map[string]string{"STORAGE_BACKEND": "memory", "ETH_RPC_URL": "http://localhost:8545"}
		cfg, err := FromEnv(envFrom(env))
		require.NoError(t, err)

		err = cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ETH_COLLECTOR_ADDRESS")

		env["ETH_COLLECTOR_ADDRESS"] = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
		cfg, err = FromEnv(envFrom(env))
		require.NoError(t, err)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Unknown Backend", func(t *testing.T) {
		cfg, err := FromEnv(envFrom(map[string]string{"STORAGE_BACKEND": "postgres"}))
		require.NoError(t, err)
		assert.Error(t, cfg.Validate())
	})
}
