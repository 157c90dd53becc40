// Package app wires the marketplace services from configuration. It is shared by
// the HTTP server and the Lambda entry points.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/property-settlement/pkg/bidding"
	"github.com/chris/property-settlement/pkg/config"
	"github.com/chris/property-settlement/pkg/directory"
	"github.com/chris/property-settlement/pkg/escrow"
	"github.com/chris/property-settlement/pkg/listings"
	"github.com/chris/property-settlement/pkg/models"
	"github.com/chris/property-settlement/pkg/notify"
	"github.com/chris/property-settlement/pkg/payments"
	"github.com/chris/property-settlement/pkg/settlement"
	"github.com/chris/property-settlement/pkg/storage"
	dydbstore "github.com/chris/property-settlement/pkg/storage/dynamodb"
	"github.com/chris/property-settlement/pkg/storage/memory"
	"github.com/ethereum/go-ethereum/common"
)

// Services are the four components behind the API.
type Services struct {
	Listings *listings.Manager
	Bids     *bidding.Engine
	Escrows  *escrow.Controller
	Payments *payments.Orchestrator
}

// NewLogger returns a JSON logger on stdout and installs it as the default.
func NewLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// LoadAWSConfig loads the default AWS configuration with the standard retryer
// capped at cfg.AWSMaxAttempts.
func LoadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRetryer(func() aws.Retryer {
			return retry.NewStandard(func(o *retry.StandardOptions) {
				o.MaxAttempts = cfg.AWSMaxAttempts
			})
		}),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return awsCfg, nil
}

func needsAWS(cfg *config.Config) bool {
	return cfg.StorageBackend == config.BackendDynamoDB ||
		cfg.NotificationsQueueURL != "" ||
		cfg.DirectoryConfigured()
}

// Build constructs the services and links the escrow controller back to the
// payment orchestrator.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var awsCfg aws.Config
	if needsAWS(cfg) {
		var err error
		if awsCfg, err = LoadAWSConfig(ctx, cfg); err != nil {
			return nil, err
		}
	}

	var store storage.Storage
	var dbClient *dynamodb.Client
	if cfg.StorageBackend == config.BackendDynamoDB || cfg.DirectoryConfigured() {
		dbClient = dynamodb.NewFromConfig(awsCfg)
	}
	switch cfg.StorageBackend {
	case config.BackendDynamoDB:
		store = dydbstore.New(dbClient, dydbstore.Tables{
			Listings:       cfg.ListingsTable,
			ActiveListings: cfg.ActiveListingsTable,
			Bids:           cfg.BidsTable,
			Payments:       cfg.PaymentsTable,
			Escrows:        cfg.EscrowsTable,
		})
	default:
		logger.Warn("using in-memory storage, state is lost on restart")
		store = memory.New()
	}

	var dir directory.Directory = directory.Open{}
	if cfg.DirectoryConfigured() {
		dir = directory.NewDynamoDBDirectory(dbClient, cfg.PropertiesTable, cfg.UsersTable)
	} else {
		logger.Warn("property and user tables not set, accepting all references")
	}

	var notifier notify.Notifier = &notify.NoOpNotifier{}
	if cfg.NotificationsQueueURL != "" {
		notifier = notify.NewSQSNotifier(sqs.NewFromConfig(awsCfg), cfg.NotificationsQueueURL)
	}

	backends := map[models.PaymentType]settlement.Backend{
		models.Fiat: settlement.FiatBackend{},
	}
	if cfg.EthRPCURL != "" {
		client, err := settlement.DialEVMClient(cfg.EthRPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to dial ethereum rpc: %w", err)
		}
		backends[models.Crypto] = settlement.NewEthereumBackend(client, common.HexToAddress(cfg.EthCollector), cfg.EthMinConfirmations)
	}

	listingSvc := listings.NewManager(store, dir, logger, listings.Options{
		SettlementGrace: cfg.SettlementGrace,
		MaxAttempts:     cfg.BidMaxAttempts,
	})
	bidSvc := bidding.NewEngine(store, listingSvc, notifier, logger, bidding.Options{MaxAttempts: cfg.BidMaxAttempts})
	escrowSvc := escrow.NewController(store, notifier, logger, escrow.Options{})
	paymentSvc := payments.NewOrchestrator(store, listingSvc, dir, escrowSvc, settlement.NewRouter(backends), notifier, logger, payments.Options{
		MaxAttempts: cfg.BidMaxAttempts,
	})
	escrowSvc.SetCompleter(paymentSvc)

	return &Services{
		Listings: listingSvc,
		Bids:     bidSvc,
		Escrows:  escrowSvc,
		Payments: paymentSvc,
	}, nil
}
