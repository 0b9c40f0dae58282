package command

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/abgdnv/inventory/internal/service"
	"github.com/abgdnv/inventory/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Test_Menu_Next(t *testing.T) {
	testCases := []struct {
		name     string
		input    io.Reader
		expected []Command
	}{
		{
			name:  "add item",
			input: input("1", "  Pen ", "10", "2.50"),
			expected: []Command{
				AddItem{Item: "Pen", Quantity: 10, Price: decimal.RequireFromString("2.50")},
			},
		},
		{
			name:     "remove, display, exit",
			input:    input("2", "Pen", "3", "4"),
			expected: []Command{RemoveItem{Item: "Pen"}, Display{}, Exit{}},
		},
		{
			name:     "invalid choice and unknown choice re-show the menu",
			input:    input("abc", "9", "3"),
			expected: []Command{Display{}},
		},
		{
			name:     "invalid quantity aborts the add",
			input:    input("1", "Pen", "ten", "2.50", "3"),
			expected: []Command{Display{}},
		},
		{
			name:     "invalid price aborts the add",
			input:    input("1", "Pen", "10", "cheap", "3"),
			expected: []Command{Display{}},
		},
		{
			name:     "negative price aborts the add",
			input:    input("1", "Pen", "10", "-1", "3"),
			expected: []Command{Display{}},
		},
		{
			name:  "empty name is passed through",
			input: input("1", "", "1", "0"),
			expected: []Command{
				AddItem{Item: "", Quantity: 1, Price: decimal.RequireFromString("0")},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			menu := NewMenu(tc.input, io.Discard, discardLogger())
			defer menu.Close()
			ctx := context.Background()
			// when
			var got []Command
			for {
				cmd, err := menu.Next(ctx)
				if err == io.EOF {
					break
				}
				require.NoError(t, err)
				got = append(got, cmd)
			}
			// then
			require.Len(t, got, len(tc.expected))
			for i := range got {
				if add, ok := tc.expected[i].(AddItem); ok {
					gotAdd, ok := got[i].(AddItem)
					require.True(t, ok, "expected AddItem, got %T", got[i])
					assert.Equal(t, add.Item, gotAdd.Item)
					assert.Equal(t, add.Quantity, gotAdd.Quantity)
					assert.True(t, add.Price.Equal(gotAdd.Price))
					continue
				}
				assert.Equal(t, tc.expected[i], got[i])
			}
		})
	}
}

func Test_Menu_PromptsAndLogs(t *testing.T) {
	// given
	var out, logs bytes.Buffer
	menu := NewMenu(input("x", "1", "Pen", "ten", "1"), &out, slog.New(slog.NewTextHandler(&logs, nil)))
	defer menu.Close()
	// when
	_, err := menu.Next(context.Background())
	// then
	assert.ErrorIs(t, err, io.EOF)
	assert.Contains(t, out.String(), "1. Add Item\n2. Remove Item\n3. Display Inventory\n4. Exit")
	assert.Contains(t, out.String(), "Enter item name: ")
	assert.Contains(t, out.String(), "Enter quantity: ")
	assert.Contains(t, out.String(), "Enter price: ")
	assert.Contains(t, logs.String(), "Invalid integer input.")
}

func Test_Menu_CancelledWhileWaiting(t *testing.T) {
	// given
	pr, pw := io.Pipe()
	defer pw.Close()
	menu := NewMenu(pr, io.Discard, discardLogger())
	defer menu.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	// when
	_, err := menu.Next(ctx)
	// then
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func Test_Run_Session(t *testing.T) {
	// given
	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))
	svc := service.NewService(store.NewInMemoryStore(), nil, log, "")
	menu := NewMenu(input(
		"1", "Pen", "10", "2.50",
		"1", "Pen", "5", "9.99",
		"2", "Ghost",
		"3",
		"4",
		"3", // never reached
	), io.Discard, log)
	defer menu.Close()
	// when
	err := Run(context.Background(), menu, NewExecutor(svc, log))
	// then
	require.NoError(t, err)
	var msgs []string
	sc := bufio.NewScanner(&logs)
	for sc.Scan() {
		var rec struct {
			Msg string `json:"msg"`
		}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		msgs = append(msgs, rec.Msg)
	}
	assert.Equal(t, []string{
		"Item added",
		"Updated quantity",
		"Item does not exist in inventory.",
		"=== Inventory List ===",
		"Pen: 15 units @ ₹2.50",
		"Exiting inventory system. Goodbye!",
	}, msgs)
}

func Test_Run_EndOfInputExits(t *testing.T) {
	// given
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	svc := service.NewService(store.NewInMemoryStore(), nil, log, "")
	menu := NewMenu(input("3"), io.Discard, log)
	defer menu.Close()
	// when
	err := Run(context.Background(), menu, NewExecutor(svc, log))
	// then
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "Inventory is currently empty.")
	assert.Contains(t, logs.String(), "Exiting inventory system. Goodbye!")
}

func Test_Menu_CloseReleasesReader(t *testing.T) {
	// given
	before := runtime.NumGoroutine()
	// when
	for range 50 {
		menu := NewMenu(input("4", "3", "3"), io.Discard, discardLogger())
		cmd, err := menu.Next(context.Background())
		require.NoError(t, err)
		require.Equal(t, Exit{}, cmd)
		menu.Close()
	}
	// then
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, 2*time.Second, 10*time.Millisecond)
}

func Test_Menu_ReadErrorIsNotEndOfInput(t *testing.T) {
	// given
	tooLong := strings.Repeat("x", bufio.MaxScanTokenSize+1)
	menu := NewMenu(input("3", tooLong), io.Discard, discardLogger())
	defer menu.Close()
	ctx := context.Background()
	// when
	first, firstErr := menu.Next(ctx)
	_, err := menu.Next(ctx)
	// then
	require.NoError(t, firstErr)
	assert.Equal(t, Display{}, first)
	assert.ErrorIs(t, err, bufio.ErrTooLong)
	assert.NotErrorIs(t, err, io.EOF)
}

func Test_Run_ReadErrorIsReturned(t *testing.T) {
	// given
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	svc := service.NewService(store.NewInMemoryStore(), nil, log, "")
	menu := NewMenu(input(strings.Repeat("1", bufio.MaxScanTokenSize+1)), io.Discard, log)
	defer menu.Close()
	// when
	err := Run(context.Background(), menu, NewExecutor(svc, log))
	// then
	assert.ErrorIs(t, err, bufio.ErrTooLong)
	assert.NotContains(t, logs.String(), "Exiting inventory system. Goodbye!")
}
