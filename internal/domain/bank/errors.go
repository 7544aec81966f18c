package bank

import "errors"

var (
	ErrNotLinked     = errors.New("bank account not linked")
	ErrAlreadyLinked = errors.New("bank account already linked")
	ErrVerification  = errors.New("bank account verification failed")
)
