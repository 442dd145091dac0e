// Package pricing derives the key price from the number of keys sold.
package pricing

import (
	"fmt"

	"github.com/fastprodman/keyshop/internal/model"
)

const (
	DefaultBase      int64 = 100
	DefaultIncrement int64 = 10
)

// Engine prices the next key as Base + Increment*keysSold.
type Engine struct {
	Base      int64
	Increment int64
}

func Default() Engine {
	return Engine{Base: DefaultBase, Increment: DefaultIncrement}
}

// Validate guarantees a positive, non-decreasing price curve.
func (e Engine) Validate() error {
	if e.Base <= 0 {
		return fmt.Errorf("%w: base price must be > 0, got %d", model.ErrInvalidInput, e.Base)
	}
	if e.Increment < 0 {
		return fmt.Errorf("%w: price increment must be >= 0, got %d", model.ErrInvalidInput, e.Increment)
	}

	return nil
}

func (e Engine) PriceFor(keysSold int64) int64 {
	return e.Base + e.Increment*keysSold
}

// State returns the pricing state for keysSold.
func (e Engine) State(keysSold int64) model.PricingState {
	return model.PricingState{KeysSold: keysSold, CurrentPrice: e.PriceFor(keysSold)}
}

// Advance returns the state after one more sale. It is pure; persisting the
// result is the caller's job and must happen in the same transaction as the
// sale it records.
func (e Engine) Advance(s model.PricingState) model.PricingState {
	return e.State(s.KeysSold + 1)
}
