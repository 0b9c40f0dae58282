package store

import (
	"context"
	"slices"
	"sync"

	inverrors "github.com/abgdnv/inventory/internal/errors"
)

// inMemory implements ItemStore using a map plus a slice recording insertion order.
type inMemory struct {
	mu    sync.RWMutex
	items map[string]*Item
	order []string
}

// NewInMemoryStore creates a new, empty ItemStore.
func NewInMemoryStore() ItemStore {
	return &inMemory{
		items: make(map[string]*Item),
	}
}

// FindByName retrieves an item by its name.
func (s *inMemory) FindByName(_ context.Context, name string) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[name]
	if !ok {
		return nil, inverrors.ErrItemNotFound
	}
	found := *item
	return &found, nil
}

// FindAll retrieves all items in insertion order.
func (s *inMemory) FindAll(_ context.Context) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Item, 0, len(s.order))
	for _, name := range s.order {
		list = append(list, *s.items[name])
	}
	return list, nil
}

// Create inserts a new item and returns a copy of it.
func (s *inMemory) Create(_ context.Context, item Item) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.Name]; exists {
		return nil, inverrors.ErrItemExists
	}
	stored := item
	s.items[item.Name] = &stored
	s.order = append(s.order, item.Name)

	created := stored
	return &created, nil
}

// UpdateQuantity applies change to an existing item in place.
func (s *inMemory) UpdateQuantity(_ context.Context, name string, change int) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[name]
	if !ok {
		return nil, inverrors.ErrItemNotFound
	}
	item.UpdateQuantity(change)

	updated := *item
	return &updated, nil
}

// DeleteByName removes an item by its name.
func (s *inMemory) DeleteByName(_ context.Context, name string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[name]
	if !exists {
		return nil, inverrors.ErrItemNotFound
	}
	delete(s.items, name)
	if i := slices.Index(s.order, name); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return item, nil
}

// Len reports the number of stored items.
func (s *inMemory) Len(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
