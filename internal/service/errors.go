package service

import "errors"

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	// ErrConfirmationRequired gates item removal: a quantity-zero
	// mutation is only executed once the caller has confirmed it.
	ErrConfirmationRequired = errors.New("confirmation required")
)
