// Package events contains the payloads published on inventory subjects.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/inventory/pkg/messaging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemEvent describes the state of an item right after a change.
type ItemEvent struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func newItemEvent(name string, quantity int, price decimal.Decimal) ItemEvent {
	return ItemEvent{
		ID:         uuid.New(),
		Name:       name,
		Quantity:   quantity,
		Price:      price,
		OccurredAt: time.Now().UTC(),
	}
}

// ItemAddedEvent is published when a new name enters the inventory.
type ItemAddedEvent struct{ ItemEvent }

// ItemUpdatedEvent is published when the quantity of an existing item changes.
type ItemUpdatedEvent struct{ ItemEvent }

// ItemRemovedEvent is published when an item is removed. It carries the last known state.
type ItemRemovedEvent struct{ ItemEvent }

func NewItemAdded(name string, quantity int, price decimal.Decimal) ItemAddedEvent {
	return ItemAddedEvent{newItemEvent(name, quantity, price)}
}

func NewItemUpdated(name string, quantity int, price decimal.Decimal) ItemUpdatedEvent {
	return ItemUpdatedEvent{newItemEvent(name, quantity, price)}
}

func NewItemRemoved(name string, quantity int, price decimal.Decimal) ItemRemovedEvent {
	return ItemRemovedEvent{newItemEvent(name, quantity, price)}
}

func (e ItemAddedEvent) Subject() string   { return messaging.InventoryItemAddedSubject }
func (e ItemUpdatedEvent) Subject() string { return messaging.InventoryItemUpdatedSubject }
func (e ItemRemovedEvent) Subject() string { return messaging.InventoryItemRemovedSubject }

func (e ItemAddedEvent) Payload() ([]byte, error)   { return json.Marshal(e.ItemEvent) }
func (e ItemUpdatedEvent) Payload() ([]byte, error) { return json.Marshal(e.ItemEvent) }
func (e ItemRemovedEvent) Payload() ([]byte, error) { return json.Marshal(e.ItemEvent) }

// MessageID lets brokers deduplicate redelivered publishes of the same event.
func (e ItemEvent) MessageID() string { return e.ID.String() }
