package ght

import "github.com/pkg/errors"

// Sentinel errors for package ght.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Table reference errors
	ErrNilTable = errors.New("nil or destroyed table")

	// Construction and resize errors
	ErrZeroWidth        = errors.New("table width must be greater than zero")
	ErrInvalidThreshold = errors.New("auto-resize threshold must be a finite number")

	// Lookup errors
	ErrKeyNotFound = errors.New("key not found")
)
