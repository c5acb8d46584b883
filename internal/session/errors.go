package session

import "errors"

// Failure kinds callers can branch on with errors.Is. Every validation
// failure is detected before any store write; ErrProgression is the one
// post-write condition (see Service.Create).
var (
	ErrMalformed    = errors.New("missing required fields")
	ErrInvalidMode  = errors.New("invalid mode")
	ErrInvalidUnit  = errors.New("invalid thumun id")
	ErrNotFound     = errors.New("not found")
	ErrWindow       = errors.New("attempt time outside the allowed window")
	ErrStoreTimeout = errors.New("store timeout")
	ErrProgression  = errors.New("progression update failed")
)
