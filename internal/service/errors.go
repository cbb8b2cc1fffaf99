package service

import "errors"

// Taxonomy errors — handlers map these to HTTP statuses with errors.Is.
// Anything else that escapes a service is a store failure (500).
var (
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)
