package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/property-settlement/pkg/app"
	"github.com/chris/property-settlement/pkg/config"
)

var (
	cfg      *config.Config
	services *app.Services
	logger   *slog.Logger
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger = app.NewLogger(cfg.LogLevel)

	services, err = app.Build(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to build services", "error", err)
		os.Exit(1)
	}
}

// HandleRequest is triggered by an EventBridge Schedule. It expires lapsed
// auctions and drives stuck payment sagas forward. Each pass runs even if an
// earlier one fails.
func HandleRequest(ctx context.Context) error {
	logger.Info("starting reconciliation")
	var errs []error

	expired, err := services.Listings.SweepExpired(ctx)
	if err != nil {
		logger.Error("failed to sweep expired listings", "error", err)
		errs = append(errs, err)
	}

	resumed, err := services.Payments.ResumeProcessing(ctx, cfg.StuckSagaThreshold)
	if err != nil {
		logger.Error("failed to resume processing payments", "error", err)
		errs = append(errs, err)
	}

	completed, err := services.Payments.ResumeReleased(ctx, cfg.StuckSagaThreshold)
	if err != nil {
		logger.Error("failed to complete released escrows", "error", err)
		errs = append(errs, err)
	}

	logger.Info("reconciliation finished", "expired", expired, "resumed", resumed, "completed", completed)
	return errors.Join(errs...)
}

func main() {
	lambda.Start(HandleRequest)
}
