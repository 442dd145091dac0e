package pricing

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fastprodman/keyshop/internal/model"
)

var (
	ErrStateMissing  = errors.New("pricing state row missing")
	ErrStateConflict = errors.New("pricing state changed concurrently")
)

// State persists the singleton sales counter.
type State interface {
	Get(ctx context.Context) (model.PricingState, error)
	LockState(ctx context.Context, tx *sql.Tx) (model.PricingState, error)
	Save(ctx context.Context, tx *sql.Tx, prev, next model.PricingState) error
}
