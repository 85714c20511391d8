package repository

import "errors"

// Common repository errors
var (
	// ErrDeckNotFound is returned when a deck is not found
	ErrDeckNotFound = errors.New("deck not found")

	// ErrCardNotFound is returned when a card is not found
	ErrCardNotFound = errors.New("card not found")

	// ErrCardSetNotFound is returned when a card set is not found
	ErrCardSetNotFound = errors.New("card set not found")

	// ErrDuplicateKey is returned when an insert hits a unique constraint
	ErrDuplicateKey = errors.New("duplicate key")
)
