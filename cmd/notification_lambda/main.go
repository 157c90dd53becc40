package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/property-settlement/pkg/app"
	"github.com/chris/property-settlement/pkg/config"
	"github.com/chris/property-settlement/pkg/notify"
)

// Handler drains the notifications queue into a delivery channel.
type Handler struct {
	Sender notify.Notifier
	Logger *slog.Logger
}

// HandleRequest delivers each queued notification. Messages that fail are reported
// back as batch item failures so SQS retries only those.
func (h *Handler) HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, message := range sqsEvent.Records {
		var n notify.Notification
		if err := json.Unmarshal([]byte(message.Body), &n); err != nil {
			// Malformed bodies are dropped rather than retried.
			h.Logger.Error("dropping malformed notification", "message_id", message.MessageId, "error", err)
			continue
		}

		if err := h.Sender.Notify(ctx, n); err != nil {
			h.Logger.Error("failed to deliver notification",
				"message_id", message.MessageId,
				"event_type", n.EventType,
				"recipient_id", n.RecipientID,
				"error", err,
			)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
			continue
		}
		h.Logger.Info("notification delivered", "message_id", message.MessageId, "event_type", n.EventType)
	}
	return resp, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := app.NewLogger(cfg.LogLevel)
	if cfg.NotifyWebhookURL == "" {
		logger.Error("NOTIFY_WEBHOOK_URL environment variable not set")
		os.Exit(1)
	}

	h := &Handler{Sender: notify.NewWebhookSender(cfg.NotifyWebhookURL), Logger: logger}
	lambda.Start(h.HandleRequest)
}
