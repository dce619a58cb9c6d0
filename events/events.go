// Package events publishes reconciliation state changes for downstream consumers.
package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Type names a reconciliation event
type Type string

const (
	PhotoMatched     Type = "photo.matched"
	PhotoNeedsReview Type = "photo.needs_review"
	PhotoUnmatched   Type = "photo.unmatched"
	OrderCompleted   Type = "order.completed"
	OrderReopened    Type = "order.reopened"
)

// Event is the message written for every committed state change
type Event struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	OccurredAt  time.Time `json:"occurred_at"`
	FacilityID  uint      `json:"facility_id,omitempty"`
	PhotoID     uint      `json:"photo_id,omitempty"`
	OrderItemID uint      `json:"order_item_id,omitempty"`
	OrderID     uint      `json:"order_id,omitempty"`
	Confidence  *float64  `json:"confidence,omitempty"`
	Reason      string    `json:"reason,omitempty"`
}

// New returns an event of the given type with a fresh id and timestamp
func New(t Type) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
	}
}

// Key groups events for the same order onto one partition.
// Events without an order fall back to the photo.
func (e Event) Key() string {
	if e.OrderID != 0 {
		return "order:" + strconv.FormatUint(uint64(e.OrderID), 10)
	}
	return "photo:" + strconv.FormatUint(uint64(e.PhotoID), 10)
}

// Validate rejects events consumers could not route
func (e Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("id is required")
	}
	switch e.Type {
	case PhotoMatched, PhotoNeedsReview, PhotoUnmatched:
		if e.PhotoID == 0 {
			return fmt.Errorf("photo_id is required for %s", e.Type)
		}
	case OrderCompleted, OrderReopened:
		if e.OrderID == 0 {
			return fmt.Errorf("order_id is required for %s", e.Type)
		}
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	return nil
}

// Publisher delivers events after the transaction that produced them commits
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// NoopPublisher drops every event; used when KAFKA_BROKERS is empty
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...Event) error { return nil }
func (NoopPublisher) Close() error                             { return nil }
