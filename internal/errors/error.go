// Package errors provides custom error types for inventory operations.
package errors

import "errors"

var (
	ErrEmptyName     = errors.New("item name must not be empty")
	ErrItemNotFound  = errors.New("item not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrItemExists    = errors.New("item already exists")
	ErrNegativePrice = errors.New("price must not be negative")
)
