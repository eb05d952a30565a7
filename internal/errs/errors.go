// Package errs defines sentinel error values shared across services.
// Handlers translate these into HTTP statuses; services wrap them
// with context using fmt.Errorf and %w so callers can still match
// with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when no principal can be resolved
// for the caller. Handlers should translate this into HTTP 401.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrNotAuthorized is returned when the caller's role or ownership
// does not permit the operation. Handlers should translate this into
// HTTP 403.
var ErrNotAuthorized = errors.New("not authorized")

// ErrNotFound is returned when a referenced entity does not resolve.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput is returned for missing or malformed fields.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidQuantity is returned when a booking quantity is zero or
// negative.
var ErrInvalidQuantity = errors.New("invalid quantity")

// ErrInsufficientInventory is returned when a ticket type has fewer
// remaining units than requested.
var ErrInsufficientInventory = errors.New("insufficient inventory")

// ErrSoldOut is the zero-remaining special case of
// ErrInsufficientInventory. It wraps it so errors.Is matches both.
var ErrSoldOut = fmt.Errorf("sold out: %w", ErrInsufficientInventory)

// ErrConflict is returned on an attempted transition out of a
// terminal state, such as responding to an already-decided request.
// Handlers should translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
