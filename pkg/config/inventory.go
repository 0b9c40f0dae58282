package config

import (
	"fmt"
	"strings"
)

// InventoryConfig holds settings of the inventory itself.
type InventoryConfig struct {
	// Currency is the symbol printed in front of item prices.
	Currency string `koanf:"currency"`
}

// String returns a string representation of the inventory configuration.
func (c *InventoryConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Inventory ---\n")
	b.WriteString(fmt.Sprintf("  currency: %s\n", c.Currency))
	return b.String()
}

func (c *InventoryConfig) Validate() error {
	if strings.TrimSpace(c.Currency) == "" {
		return fmt.Errorf("inventory currency is not configured")
	}
	return nil
}
