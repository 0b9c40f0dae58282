package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/inventory/internal/service"
	"github.com/abgdnv/inventory/pkg/logger"
)

// Executor maps commands to inventory operations.
type Executor struct {
	service service.InventoryService
	logger  *slog.Logger
}

func NewExecutor(svc service.InventoryService, log *slog.Logger) *Executor {
	return &Executor{
		service: svc,
		logger:  log.With("component", "command"),
	}
}

// Execute runs cmd and reports whether the session should end.
// Operation errors have already been logged by the service and are absorbed here.
func (e *Executor) Execute(ctx context.Context, cmd Command) bool {
	ctx = logger.WithCommand(ctx, cmd.Name())

	switch c := cmd.(type) {
	case AddItem:
		_, _ = e.service.AddItem(ctx, c.Item, c.Quantity, c.Price)
	case RemoveItem:
		_ = e.service.RemoveItem(ctx, c.Item)
	case Display:
		_ = e.service.DisplayInventory(ctx)
	case Exit:
		e.logger.InfoContext(ctx, "Exiting inventory system. Goodbye!")
		return true
	default:
		e.logger.ErrorContext(ctx, "Unsupported command", "type", fmt.Sprintf("%T", cmd))
	}
	return false
}
