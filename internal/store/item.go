package store

import (
	"fmt"
	"strconv"
	"strings"

	inverrors "github.com/abgdnv/inventory/internal/errors"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is printed in front of prices when no currency is configured.
const DefaultCurrency = "₹"

// Item is a named inventory record.
// Quantity has no floor and may go negative after decrements.
type Item struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// UpdateQuantity adds change to the item quantity.
func (i *Item) UpdateQuantity(change int) {
	i.Quantity += change
}

// String renders the item as "<name>: <quantity> units @ ₹<price>".
func (i Item) String() string {
	return i.Format(DefaultCurrency)
}

// Format renders the item with the given currency symbol and a two decimal price.
func (i Item) Format(currency string) string {
	return fmt.Sprintf("%s: %d units @ %s%s", i.Name, i.Quantity, currency, i.Price.StringFixed(2))
}

// ParseQuantity coerces raw text into a quantity change.
// Errors wrap ErrInvalidInput.
func ParseQuantity(raw string) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: quantity %q is not an integer", inverrors.ErrInvalidInput, raw)
	}
	return q, nil
}

// ParsePrice coerces raw text into a price.
// Errors wrap ErrInvalidInput.
func ParsePrice(raw string) (decimal.Decimal, error) {
	p, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: price %q is not a number", inverrors.ErrInvalidInput, raw)
	}
	return p, nil
}
