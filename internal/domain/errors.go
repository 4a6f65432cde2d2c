package domain

import "errors"

// Sentinel errors shared by services and repositories. Callers match them with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidState        = errors.New("invalid state")
	ErrAlreadyExists       = errors.New("already exists")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrFull                = errors.New("capacity reached")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
	ErrStoreUnavailable    = errors.New("store unavailable")
)
