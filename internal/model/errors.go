package model

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrKeyCollision       = errors.New("key value collision")
	ErrCodeCollision      = errors.New("payment code collision")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

var businessErrors = []error{
	ErrUserNotFound,
	ErrPaymentNotFound,
	ErrInsufficientFunds,
	ErrKeyCollision,
	ErrCodeCollision,
	ErrInvalidInput,
}

// StorageFailure wraps err as "op: err". Errors that do not already carry a
// business sentinel are also tagged with ErrStorageUnavailable.
func StorageFailure(op string, err error) error {
	if err == nil {
		return nil
	}

	for _, b := range businessErrors {
		if errors.Is(err, b) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if errors.Is(err, ErrStorageUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
