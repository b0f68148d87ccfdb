package model

import "errors"

var (
	// ErrNoOwner is returned when an operation is attempted without an
	// authenticated owner. Nothing is read or written.
	ErrNoOwner = errors.New("no authenticated owner")

	// ErrNotFound is returned when a record does not exist for the owner.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgs is returned when input fails validation.
	ErrInvalidArgs = errors.New("invalid arguments")

	// ErrConflict is returned when a write collides with an existing record.
	ErrConflict = errors.New("conflict")
)
