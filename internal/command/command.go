// Package command turns user intent into inventory operations.
// Parsing and validation of console input live here, not in the service.
package command

import (
	"github.com/shopspring/decimal"
)

// Command is one of AddItem, RemoveItem, Display or Exit.
type Command interface {
	Name() string
	isCommand()
}

// AddItem adds a new item or increases the quantity of an existing one.
type AddItem struct {
	Item     string
	Quantity int
	Price    decimal.Decimal
}

// RemoveItem removes an item from the inventory.
type RemoveItem struct {
	Item string
}

// Display shows the current inventory.
type Display struct{}

// Exit ends the session.
type Exit struct{}

func (AddItem) Name() string    { return "add" }
func (RemoveItem) Name() string { return "remove" }
func (Display) Name() string    { return "display" }
func (Exit) Name() string       { return "exit" }

func (AddItem) isCommand()    {}
func (RemoveItem) isCommand() {}
func (Display) isCommand()    {}
func (Exit) isCommand()       {}
