package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrConflict      = errors.New("record conflicts with an existing one")
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrClosed        = errors.New("store closed")
)
