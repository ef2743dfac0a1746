package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure leaving the ledger wraps exactly one of
// these, so callers branch with errors.Is while the message keeps the
// specifics.
var (
	ErrValidation     = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrAlreadyDeleted = errors.New("already deleted")
	ErrNotDeleted     = errors.New("not deleted")
	ErrDecryption     = errors.New("cannot decrypt note")
	ErrConfiguration  = errors.New("invalid configuration")
	ErrStorage        = errors.New("storage failure")
)

// Frequent validation failures, pre-wrapped so call sites stay short.
var (
	ErrInvalidAmount   = fmt.Errorf("%w: amount must be a positive number with at most two decimals", ErrValidation)
	ErrInvalidCurrency = fmt.Errorf("%w: currency must be a 3-letter ISO code", ErrValidation)
	ErrInvalidDate     = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	ErrInvalidMonth    = fmt.Errorf("%w: month must be YYYY-MM", ErrValidation)
	ErrInvalidLimit    = fmt.Errorf("%w: budget limit must be a positive number with at most two decimals", ErrValidation)
	ErrEmptyCategory   = fmt.Errorf("%w: category name is required", ErrValidation)
	ErrEmptyUpdate     = fmt.Errorf("%w: update requires at least one field", ErrValidation)
)
