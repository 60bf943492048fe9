// Package events publishes product lifecycle notifications.
package events

import (
	"context"
	"time"

	"product-api/internal/model"
)

// Type identifies a product lifecycle event. It doubles as the routing key.
type Type string

const (
	ProductCreated Type = "product.created"
	ProductUpdated Type = "product.updated"
	ProductDeleted Type = "product.deleted"
)

// Event describes a change to a single product. Product is nil for deletions.
type Event struct {
	Type       Type           `json:"type"`
	ProductID  string         `json:"productId"`
	Product    *model.Product `json:"product,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// NewEvent builds an event stamped with the current UTC time.
func NewEvent(eventType Type, productID string, product *model.Product) Event {
	return Event{
		Type:       eventType,
		ProductID:  productID,
		Product:    product,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers product events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }
