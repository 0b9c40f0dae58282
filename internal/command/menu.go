package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	inverrors "github.com/abgdnv/inventory/internal/errors"
	"github.com/abgdnv/inventory/internal/store"
)

// Menu choices.
const (
	ChoiceAddItem = iota + 1
	ChoiceRemoveItem
	ChoiceDisplayInventory
	ChoiceExit
)

const menuText = "\nMenu:\n1. Add Item\n2. Remove Item\n3. Display Inventory\n4. Exit\n"

// Menu reads commands from an interactive console.
type Menu struct {
	lines     <-chan string
	done      chan struct{}
	closeOnce sync.Once
	// readErr is written before lines is closed and read only after.
	readErr error
	out     io.Writer
	logger  *slog.Logger
}

// NewMenu starts reading lines from in. Reading happens on its own goroutine so
// a pending prompt can be abandoned when the context is cancelled.
// Close stops the reader once the menu is no longer needed.
func NewMenu(in io.Reader, out io.Writer, logger *slog.Logger) *Menu {
	lines := make(chan string)
	m := &Menu{
		lines:  lines,
		done:   make(chan struct{}),
		out:    out,
		logger: logger.With("component", "menu"),
	}
	go m.read(in, lines)
	return m
}

func (m *Menu) read(in io.Reader, lines chan<- string) {
	defer close(lines)
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		select {
		case lines <- sc.Text():
		case <-m.done:
			return
		}
	}
	if err := sc.Err(); err != nil {
		m.readErr = fmt.Errorf("failed to read input: %w", err)
	}
}

// Close releases the reader goroutine. A reader blocked inside in.Read
// returns once that read completes.
func (m *Menu) Close() {
	m.closeOnce.Do(func() { close(m.done) })
}

// Next shows the menu and returns the next valid command.
// Invalid input is logged and the menu is shown again.
// Returns io.EOF once the input is exhausted, or the read error that ended it.
func (m *Menu) Next(ctx context.Context) (Command, error) {
	for {
		_, _ = io.WriteString(m.out, menuText)
		choice, err := m.promptInt(ctx, "Enter choice: ")
		if err != nil {
			if errors.Is(err, inverrors.ErrInvalidInput) {
				continue
			}
			return nil, err
		}

		switch choice {
		case ChoiceAddItem:
			cmd, err := m.readAddItem(ctx)
			if err != nil {
				if errors.Is(err, inverrors.ErrInvalidInput) {
					continue
				}
				return nil, err
			}
			return cmd, nil
		case ChoiceRemoveItem:
			name, err := m.prompt(ctx, "Enter item name to remove: ")
			if err != nil {
				return nil, err
			}
			return RemoveItem{Item: name}, nil
		case ChoiceDisplayInventory:
			return Display{}, nil
		case ChoiceExit:
			return Exit{}, nil
		default:
			m.logger.WarnContext(ctx, "Invalid choice", "choice", choice)
		}
	}
}

// readAddItem prompts for all fields of an AddItem before validating any of them.
func (m *Menu) readAddItem(ctx context.Context) (Command, error) {
	name, err := m.prompt(ctx, "Enter item name: ")
	if err != nil {
		return nil, err
	}
	quantity, qtyErr := m.promptInt(ctx, "Enter quantity: ")
	if qtyErr != nil && !errors.Is(qtyErr, inverrors.ErrInvalidInput) {
		return nil, qtyErr
	}
	rawPrice, err := m.prompt(ctx, "Enter price: ")
	if err != nil {
		return nil, err
	}
	price, err := store.ParsePrice(rawPrice)
	if err == nil && price.IsNegative() {
		err = fmt.Errorf("%w: %w", inverrors.ErrInvalidInput, inverrors.ErrNegativePrice)
	}
	if err != nil {
		m.logger.ErrorContext(ctx, "Invalid price input.", "error", err)
		return nil, err
	}
	if qtyErr != nil {
		return nil, qtyErr
	}
	return AddItem{Item: name, Quantity: quantity, Price: price}, nil
}

// promptInt reads an integer. A malformed value is logged and reported as ErrInvalidInput.
func (m *Menu) promptInt(ctx context.Context, prompt string) (int, error) {
	raw, err := m.prompt(ctx, prompt)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		m.logger.ErrorContext(ctx, "Invalid integer input.", "input", raw)
		return 0, fmt.Errorf("%w: %q is not an integer", inverrors.ErrInvalidInput, raw)
	}
	return v, nil
}

// prompt writes the prompt and returns the next trimmed input line.
func (m *Menu) prompt(ctx context.Context, prompt string) (string, error) {
	_, _ = io.WriteString(m.out, prompt)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-m.lines:
		if !ok {
			if m.readErr != nil {
				return "", m.readErr
			}
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

// Run executes commands read from menu until Exit, end of input or cancellation.
// End of input is treated like Exit.
func Run(ctx context.Context, menu *Menu, executor *Executor) error {
	for {
		cmd, err := menu.Next(ctx)
		if errors.Is(err, io.EOF) {
			cmd = Exit{}
		} else if err != nil {
			return err
		}
		if executor.Execute(ctx, cmd) {
			return nil
		}
	}
}
