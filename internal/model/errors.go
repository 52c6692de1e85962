package model

import "errors"

// Workflow outcomes the caller must be able to tell apart from plain
// failures. Compared with errors.Is; stores wrap them with context.
var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAlreadyApproved   = errors.New("request already approved")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
)
