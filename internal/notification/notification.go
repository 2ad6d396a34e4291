package notification

import (
	"context"
	"log/slog"
)

const (
	// KindAccountLocked indicates a chargeback locked a client account.
	KindAccountLocked = "account_locked"
	// KindSnapshotOmitted indicates an account was left out of a report
	// because its total could not be computed.
	KindSnapshotOmitted = "snapshot_omitted"
)

// Event describes an operational occurrence worth surfacing downstream.
type Event struct {
	Kind   string
	Client uint16
	Tx     uint32
	Detail string
}

// Notifier delivers events to downstream systems.
type Notifier interface {
	Send(ctx context.Context, event Event) error
}

// LoggerNotifier is a stub implementation that writes events to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the event to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, event Event) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		"kind", event.Kind,
		"client", event.Client,
		"tx", event.Tx,
		"detail", event.Detail,
	)
	return nil
}
