package notify

import "context"

// NoOpNotifier is a notifier that does nothing.
type NoOpNotifier struct{}

// Notify does nothing.
func (n *NoOpNotifier) Notify(ctx context.Context, notification Notification) error {
	return nil
}
