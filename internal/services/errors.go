package services

import "errors"

var (
	// ErrReadOnly is returned when a form is submitted while its record is
	// only being viewed.
	ErrReadOnly = errors.New("record is open for viewing, not editing")

	ErrUnknownTable   = errors.New("unknown table")
	ErrUnknownFolder  = errors.New("unknown folder")
	ErrParentRequired = errors.New("a saved record is required for this step")
)
