package notification

import (
	"context"
	"errors"
	"log/slog"
)

const (
	// KindReturningVisitor is the one-time-passcode SMS sent to an
	// enrolled visitor at the door.
	KindReturningVisitor = "returning_visitor"
	// KindOwnerReview is the review request sent to the owner when the
	// visitor is unknown.
	KindOwnerReview = "owner_review"
)

// ErrDeliveryFailed wraps transport-level delivery failures.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// Message describes a notification payload bound for a phone number.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the
// logger. Used in development without an SMS transport.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification", "kind", message.Kind, "destination", message.Destination, "body", message.Body)
	return nil
}
