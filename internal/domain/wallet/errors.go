package wallet

import "errors"

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInsufficientFunds  = errors.New("insufficient wallet balance")
	ErrInvalidPin         = errors.New("invalid pin")
	ErrInvalidPinFormat   = errors.New("pin must be exactly 4 digits")
	ErrTooManyPinAttempts = errors.New("too many pin attempts")
	ErrDuplicateReference = errors.New("duplicate reference")
	ErrReferenceConflict  = errors.New("reference conflicts with different amount")
	ErrUnknownReference   = errors.New("no pending deposit for reference")
	ErrAmountMismatch     = errors.New("confirmed amount does not match initiated deposit")
)
