// Package service implements the inventory operations on top of an ItemStore.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	inverrors "github.com/abgdnv/inventory/internal/errors"
	"github.com/abgdnv/inventory/internal/store"
	"github.com/abgdnv/inventory/pkg/messaging"
	"github.com/abgdnv/inventory/pkg/messaging/events"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	inventoryHeader = "=== Inventory List ==="
	inventoryEmpty  = "Inventory is currently empty."
)

// InventoryService defines the operations on the inventory.
// Every failure is logged by the service before it is returned, so callers
// that only need the side effect may ignore the error.
type InventoryService interface {
	// AddItem creates an item, or adds quantity to an existing one.
	// The price of an existing item is never changed.
	// Returns ErrEmptyName if name is empty.
	AddItem(ctx context.Context, name string, quantity int, price decimal.Decimal) (*ItemDto, error)

	// RemoveItem deletes an item.
	// Returns ErrItemNotFound if no item exists with the given name.
	RemoveItem(ctx context.Context, name string) error

	// DisplayInventory logs a header and one line per item, or an "empty" message.
	DisplayInventory(ctx context.Context) error

	// AdjustQuantity coerces change to an integer and adds it to an existing item.
	// Returns ErrInvalidInput if change is not an integer, leaving the quantity unchanged.
	AdjustQuantity(ctx context.Context, name string, change string) (*ItemDto, error)

	// FindByName retrieves a single item.
	// Returns ErrItemNotFound if no item exists with the given name.
	FindByName(ctx context.Context, name string) (*ItemDto, error)

	// FindAll returns all items in insertion order.
	FindAll(ctx context.Context) ([]ItemDto, error)
}

// ItemDto represents the data transfer object for an item.
type ItemDto struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Display  string          `json:"display"`
}

var _ InventoryService = (*Service)(nil)

// Service implements InventoryService.
type Service struct {
	repository store.ItemStore
	publisher  messaging.Publisher
	logger     *slog.Logger
	currency   string
	tracer     trace.Tracer
}

// NewService creates a new Service. A nil publisher disables event publishing
// and an empty currency falls back to store.DefaultCurrency.
func NewService(repo store.ItemStore, publisher messaging.Publisher, logger *slog.Logger, currency string) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	if currency == "" {
		currency = store.DefaultCurrency
	}
	return &Service{
		repository: repo,
		publisher:  publisher,
		logger:     logger.With("component", "inventory"),
		currency:   currency,
		tracer:     otel.Tracer("github.com/abgdnv/inventory/internal/service"),
	}
}

// AddItem adds a new item or updates the quantity of an existing one.
func (s *Service) AddItem(ctx context.Context, name string, quantity int, price decimal.Decimal) (*ItemDto, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.AddItem", trace.WithAttributes(attribute.String("item.name", name)))
	defer span.End()

	if name == "" {
		s.logger.WarnContext(ctx, "Cannot add item with empty name.")
		return nil, inverrors.ErrEmptyName
	}

	_, err := s.repository.FindByName(ctx, name)
	switch {
	case err == nil:
		return s.updateQuantity(ctx, name, quantity)
	case !errors.Is(err, inverrors.ErrItemNotFound):
		s.logger.ErrorContext(ctx, "Error looking up item", "name", name, "error", err)
		return nil, fmt.Errorf("failed to find item %q: %w", name, err)
	}

	created, err := s.repository.Create(ctx, store.Item{Name: name, Quantity: quantity, Price: price})
	if errors.Is(err, inverrors.ErrItemExists) {
		// created concurrently since the lookup
		return s.updateQuantity(ctx, name, quantity)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating item", "name", name, "error", err)
		return nil, fmt.Errorf("failed to create item %q: %w", name, err)
	}
	s.logger.InfoContext(ctx, "Item added",
		"name", created.Name,
		"quantity", created.Quantity,
		"price", s.currency+created.Price.StringFixed(2))
	s.publish(ctx, events.NewItemAdded(created.Name, created.Quantity, created.Price))
	return s.toDto(created), nil
}

// RemoveItem removes an item by its name.
func (s *Service) RemoveItem(ctx context.Context, name string) error {
	ctx, span := s.tracer.Start(ctx, "inventory.RemoveItem", trace.WithAttributes(attribute.String("item.name", name)))
	defer span.End()

	removed, err := s.repository.DeleteByName(ctx, name)
	if err != nil {
		if errors.Is(err, inverrors.ErrItemNotFound) {
			s.logger.WarnContext(ctx, "Item does not exist in inventory.", "name", name)
		} else {
			s.logger.ErrorContext(ctx, "Error removing item", "name", name, "error", err)
		}
		return fmt.Errorf("failed to remove item %q: %w", name, err)
	}
	s.logger.InfoContext(ctx, "Item removed successfully.", "name", name)
	s.publish(ctx, events.NewItemRemoved(removed.Name, removed.Quantity, removed.Price))
	return nil
}

// DisplayInventory logs every item in insertion order.
func (s *Service) DisplayInventory(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "inventory.DisplayInventory")
	defer span.End()

	items, err := s.repository.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error listing items", "error", err)
		return fmt.Errorf("failed to list items: %w", err)
	}
	if len(items) == 0 {
		s.logger.InfoContext(ctx, inventoryEmpty)
		return nil
	}
	s.logger.InfoContext(ctx, inventoryHeader)
	for _, item := range items {
		s.logger.InfoContext(ctx, item.Format(s.currency))
	}
	return nil
}

// AdjustQuantity applies a textual quantity change to an existing item.
func (s *Service) AdjustQuantity(ctx context.Context, name string, change string) (*ItemDto, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.AdjustQuantity", trace.WithAttributes(attribute.String("item.name", name)))
	defer span.End()

	if name == "" {
		s.logger.WarnContext(ctx, "Cannot update item with empty name.")
		return nil, inverrors.ErrEmptyName
	}
	delta, err := store.ParseQuantity(change)
	if err != nil {
		s.logger.ErrorContext(ctx, "Invalid quantity input", "name", name, "error", err)
		return nil, err
	}
	return s.updateQuantity(ctx, name, delta)
}

// FindByName retrieves an item by its name.
func (s *Service) FindByName(ctx context.Context, name string) (*ItemDto, error) {
	item, err := s.repository.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item %q: %w", name, err)
	}
	return s.toDto(item), nil
}

// FindAll retrieves all items in insertion order.
func (s *Service) FindAll(ctx context.Context) ([]ItemDto, error) {
	items, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items: %w", err)
	}
	dtos := make([]ItemDto, len(items))
	for i := range items {
		dtos[i] = *s.toDto(&items[i])
	}
	return dtos, nil
}

func (s *Service) updateQuantity(ctx context.Context, name string, change int) (*ItemDto, error) {
	updated, err := s.repository.UpdateQuantity(ctx, name, change)
	if err != nil {
		if errors.Is(err, inverrors.ErrItemNotFound) {
			s.logger.WarnContext(ctx, "Item does not exist in inventory.", "name", name)
		} else {
			s.logger.ErrorContext(ctx, "Error updating item quantity", "name", name, "error", err)
		}
		return nil, fmt.Errorf("failed to update quantity of %q: %w", name, err)
	}
	s.logger.InfoContext(ctx, "Updated quantity", "name", updated.Name, "quantity", updated.Quantity)
	s.publish(ctx, events.NewItemUpdated(updated.Name, updated.Quantity, updated.Price))
	return s.toDto(updated), nil
}

// publish notifies subscribers. A failed publish never fails the inventory operation.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish inventory event", "subject", event.Subject(), "error", err)
	}
}

// toDto converts a store.Item to an ItemDto.
func (s *Service) toDto(item *store.Item) *ItemDto {
	return &ItemDto{
		Name:     item.Name,
		Quantity: item.Quantity,
		Price:    item.Price,
		Display:  item.Format(s.currency),
	}
}
