package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/bonselink/inspections/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	UserRegistered = "user.registered"
	SlotRegistered = "slot.registered"
	SlotsExpired   = "slots.expired"
)

// Event payloads
type UserRegisteredEvent struct {
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
}

type SlotRegisteredEvent struct {
	BucketKey    string    `json:"bucket_key"`
	Date         string    `json:"date"`
	Warehouse    string    `json:"warehouse"`
	TimeOfDay    string    `json:"time_of_day"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

type SlotsExpiredEvent struct {
	Date    string    `json:"date"`
	Deleted int64     `json:"deleted"`
	SweptAt time.Time `json:"swept_at"`
}
