// ABOUTME: Error values shared by the context assembly core
package core

import "errors"

// ErrInvalidInput marks contract violations (malformed cursor, negative
// budget). Requests failing this way are rejected before any state change.
var ErrInvalidInput = errors.New("invalid input")
