// Package messaging defines the contract between event producers and brokers.
package messaging

import (
	"context"
)

// Subjects of inventory change events.
const (
	InventorySubjects           = "inventory.>"
	InventoryItemAddedSubject   = "inventory.item.added"
	InventoryItemUpdatedSubject = "inventory.item.updated"
	InventoryItemRemovedSubject = "inventory.item.removed"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

// Identified is implemented by events that carry a stable identifier.
type Identified interface {
	MessageID() string
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
