// Package config loads service settings from the environment, optionally seeded
// from a .env file for local runs.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

const (
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// Config holds every setting the binaries read.
type Config struct {
	StorageBackend string

	ListingsTable       string
	ActiveListingsTable string
	BidsTable           string
	PaymentsTable       string
	EscrowsTable        string
	PropertiesTable     string
	UsersTable          string

	NotificationsQueueURL string
	NotifyWebhookURL      string

	HTTPPort string
	LogLevel slog.Level

	BidMaxAttempts     int
	SettlementGrace    time.Duration
	StuckSagaThreshold time.Duration
	AWSMaxAttempts     int

	EthRPCURL           string
	EthCollector        string
	EthMinConfirmations uint64
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		StorageBackend:        strings.ToLower(get("STORAGE_BACKEND", BackendDynamoDB)),
		ListingsTable:         get("DYNAMODB_LISTINGS_TABLE_NAME", ""),
		ActiveListingsTable:   get("DYNAMODB_ACTIVE_LISTINGS_TABLE_NAME", ""),
		BidsTable:             get("DYNAMODB_BIDS_TABLE_NAME", ""),
		PaymentsTable:         get("DYNAMODB_PAYMENTS_TABLE_NAME", ""),
		EscrowsTable:          get("DYNAMODB_ESCROWS_TABLE_NAME", ""),
		PropertiesTable:       get("DYNAMODB_PROPERTIES_TABLE_NAME", ""),
		UsersTable:            get("DYNAMODB_USERS_TABLE_NAME", ""),
		NotificationsQueueURL: get("SQS_NOTIFICATIONS_QUEUE_URL", ""),
		NotifyWebhookURL:      get("NOTIFY_WEBHOOK_URL", ""),
		HTTPPort:              get("HTTP_PORT", "8080"),
		EthRPCURL:             get("ETH_RPC_URL", ""),
		EthCollector:          get("ETH_COLLECTOR_ADDRESS", ""),
	}

	var errs []error
	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	var err error
	if cfg.BidMaxAttempts, err = strconv.Atoi(get("BID_MAX_ATTEMPTS", "5")); err != nil {
		errs = append(errs, fmt.Errorf("BID_MAX_ATTEMPTS: %w", err))
	}
	if cfg.AWSMaxAttempts, err = strconv.Atoi(get("AWS_MAX_ATTEMPTS", "5")); err != nil {
		errs = append(errs, fmt.Errorf("AWS_MAX_ATTEMPTS: %w", err))
	}
	if cfg.SettlementGrace, err = time.ParseDuration(get("SETTLEMENT_GRACE", "72h")); err != nil {
		errs = append(errs, fmt.Errorf("SETTLEMENT_GRACE: %w", err))
	}
	if cfg.StuckSagaThreshold, err = time.ParseDuration(get("STUCK_SAGA_THRESHOLD", "20m")); err != nil {
		errs = append(errs, fmt.Errorf("STUCK_SAGA_THRESHOLD: %w", err))
	}
	if cfg.EthMinConfirmations, err = strconv.ParseUint(get("ETH_MIN_CONFIRMATIONS", "12"), 10, 64); err != nil {
		errs = append(errs, fmt.Errorf("ETH_MIN_CONFIRMATIONS: %w", err))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate checks that the settings required by the chosen backend are present.
func (c *Config) Validate() error {
	var errs []error
	switch c.StorageBackend {
	case BackendMemory:
	case BackendDynamoDB:
		tables := []struct{ key, value string }{
			{"DYNAMODB_LISTINGS_TABLE_NAME", c.ListingsTable},
			{"DYNAMODB_ACTIVE_LISTINGS_TABLE_NAME", c.ActiveListingsTable},
			{"DYNAMODB_BIDS_TABLE_NAME", c.BidsTable},
			{"DYNAMODB_PAYMENTS_TABLE_NAME", c.PaymentsTable},
			{"DYNAMODB_ESCROWS_TABLE_NAME", c.EscrowsTable},
		}
		for _, table := range tables {
			if table.value == "" {
				errs = append(errs, fmt.Errorf("%s is not set", table.key))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}
	if c.BidMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("BID_MAX_ATTEMPTS must be at least 1"))
	}
	if c.AWSMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("AWS_MAX_ATTEMPTS must be at least 1"))
	}
	if c.SettlementGrace <= 0 {
		errs = append(errs, fmt.Errorf("SETTLEMENT_GRACE must be positive"))
	}
	if c.EthRPCURL != "" && !common.IsHexAddress(c.EthCollector) {
		errs = append(errs, fmt.Errorf("ETH_COLLECTOR_ADDRESS must be a hex address when ETH_RPC_URL is set"))
	}
	return errors.Join(errs...)
}

// DirectoryConfigured reports whether the property and user tables are set.
func (c *Config) DirectoryConfigured() bool {
	return c.PropertiesTable != "" && c.UsersTable != ""
}
