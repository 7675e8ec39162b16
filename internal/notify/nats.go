package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NatsNotifier publishes events as JSON messages on a NATS subject.
type NatsNotifier struct {
	conn    *nats.Conn
	subject string
}

// NewNatsNotifier connects to the NATS server at url and publishes on
// subject. Close the notifier to drain the connection.
func NewNatsNotifier(url, subject string) (*NatsNotifier, error) {
	conn, err := nats.Connect(url, nats.Name("kasuwa-storefront"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return &NatsNotifier{conn: conn, subject: subject}, nil
}

func (n *NatsNotifier) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close drains and closes the underlying connection.
func (n *NatsNotifier) Close() error {
	return n.conn.Drain()
}
