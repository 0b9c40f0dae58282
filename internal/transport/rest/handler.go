// Package rest provides HTTP handlers for inventory operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"

	inverrors "github.com/abgdnv/inventory/internal/errors"
	"github.com/abgdnv/inventory/internal/service"
	"github.com/abgdnv/inventory/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// AddItemRequest is the body of POST /api/v1/items.
type AddItemRequest struct {
	Name     string          `json:"name"     validate:"required,max=100"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"    validate:"gte=0"`
}

// AdjustQuantityRequest is the body of PATCH /api/v1/items/{name}/quantity.
// Change is coerced to an integer by the service.
type AdjustQuantityRequest struct {
	Change string `json:"change" validate:"required"`
}

type Handler struct {
	service  service.InventoryService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new Handler with the provided service.
func NewHandler(service service.InventoryService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: newValidator(),
		logger:   logger.With("component", "rest"),
	}
}

// newValidator returns a validator that compares decimal.Decimal fields as numbers.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// RegisterRoutes registers the HTTP routes for the inventory.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/items", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.AddItem)

		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", h.FindByName)
			r.Delete("/", h.RemoveItem)
			r.Patch("/quantity", h.AdjustQuantity)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll lists all items in insertion order.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving item list", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to fetch items")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved item list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// FindByName retrieves an item by its name.
func (h *Handler) FindByName(w http.ResponseWriter, r *http.Request) {
	name, ok := web.ParseName(w, r, h.logger)
	if !ok {
		return
	}
	found, err := h.service.FindByName(r.Context(), name)
	if err != nil {
		h.respondServiceError(w, r, name, err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// AddItem creates an item or adds quantity to an existing one.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateRequest(w, r, req) {
		return
	}

	item, err := h.service.AddItem(r.Context(), req.Name, req.Quantity, req.Price)
	if err != nil {
		h.respondServiceError(w, r, req.Name, err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusCreated, item)
}

// AdjustQuantity applies a quantity change to an existing item.
func (h *Handler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	name, ok := web.ParseName(w, r, h.logger)
	if !ok {
		return
	}
	var req AdjustQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateRequest(w, r, req) {
		return
	}

	item, err := h.service.AdjustQuantity(r.Context(), name, req.Change)
	if err != nil {
		h.respondServiceError(w, r, name, err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, item)
}

// RemoveItem deletes an item by its name.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	name, ok := web.ParseName(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.RemoveItem(r.Context(), name); err != nil {
		h.respondServiceError(w, r, name, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// validateRequest validates req and writes a 400 response listing failed rules.
func (h *Handler) validateRequest(w http.ResponseWriter, r *http.Request, req any) bool {
	err := h.validate.Struct(req)
	if err == nil {
		return true
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		errorResponse := make(map[string]string)
		for _, fieldErr := range validationErrors {
			errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
		}
		h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
		web.RespondJSON(w, h.logger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
		return false
	}
	h.logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
	web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
	return false
}

// respondServiceError maps service errors to HTTP status codes.
// The service has already logged the failure.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, name string, err error) {
	switch {
	case errors.Is(err, inverrors.ErrItemNotFound):
		web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Item %q not found", name))
	case errors.Is(err, inverrors.ErrInvalidInput):
		web.RespondError(w, h.logger, http.StatusBadRequest, "Quantity change must be an integer")
	case errors.Is(err, inverrors.ErrEmptyName):
		web.RespondError(w, h.logger, http.StatusBadRequest, "Item name must not be empty")
	default:
		h.logger.ErrorContext(r.Context(), "Inventory operation failed", "name", name, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Internal server error")
	}
}
