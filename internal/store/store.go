// Package store provides an interface for inventory storage operations.
package store

import "context"

// ItemStore abstracts the mapping from item name to item.
// Implementations must keep every key equal to the Name of its item
// and list items in insertion order.
type ItemStore interface {
	// FindByName retrieves a single item by its name.
	// Returns ErrItemNotFound if no item exists with the given name.
	FindByName(ctx context.Context, name string) (*Item, error)

	// FindAll returns all items in insertion order.
	// Returns an empty slice if no items exist.
	FindAll(ctx context.Context) ([]Item, error)

	// Create inserts a new item.
	// Returns ErrItemExists if the name is already taken.
	Create(ctx context.Context, item Item) (*Item, error)

	// UpdateQuantity applies change to the quantity of an existing item.
	// Returns ErrItemNotFound if no item exists with the given name.
	UpdateQuantity(ctx context.Context, name string, change int) (*Item, error)

	// DeleteByName removes an item and returns its last state.
	// Returns ErrItemNotFound if no item exists with the given name.
	DeleteByName(ctx context.Context, name string) (*Item, error)

	// Len reports the number of stored items.
	Len(ctx context.Context) int
}
