package pricing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/keyshop/internal/model"
	"github.com/fastprodman/keyshop/internal/repos/pricing"
)

// LockState takes the row lock every purchase serializes on.
func (r *stateRepo) LockState(ctx context.Context, tx *sql.Tx) (model.PricingState, error) {
	var s model.PricingState

	err := tx.QueryRowContext(ctx, `
		SELECT keys_sold, current_price
		FROM pricing_state
		WHERE id = 1
		FOR UPDATE
	`).Scan(&s.KeysSold, &s.CurrentPrice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PricingState{}, pricing.ErrStateMissing
		}

		return model.PricingState{}, fmt.Errorf("lock pricing state: %w", err)
	}

	return s, nil
}
