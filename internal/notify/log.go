package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes events to the structured log. It is the default
// when no broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With(slog.String("component", "notifier"))}
}

func (n *LogNotifier) Publish(ctx context.Context, event Event) error {
	attrs := []any{
		slog.String("kind", event.Kind),
		slog.Time("occurred_at", event.OccurredAt),
	}
	if event.OrderID != "" {
		attrs = append(attrs, slog.String("order_id", event.OrderID))
	}
	for k, v := range event.Fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	n.logger.InfoContext(ctx, "event published", attrs...)
	return nil
}
