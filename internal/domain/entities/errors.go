package entities

import "errors"

var (
	// ErrNotFound is returned when a collection or module does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidSlide is returned when a slide number is outside the deck
	ErrInvalidSlide = errors.New("invalid slide number")
)
