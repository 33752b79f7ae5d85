package domain

import "errors"

// Common domain errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource already exists")
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidRole  = errors.New("invalid role")
	ErrInvalidField = errors.New("invalid field")
)
