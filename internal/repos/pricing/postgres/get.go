package pricing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/keyshop/internal/model"
	"github.com/fastprodman/keyshop/internal/repos/pricing"
)

func (r *stateRepo) Get(ctx context.Context) (model.PricingState, error) {
	var s model.PricingState

	err := r.db.QueryRowContext(ctx, `
		SELECT keys_sold, current_price
		FROM pricing_state
		WHERE id = 1
	`).Scan(&s.KeysSold, &s.CurrentPrice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PricingState{}, pricing.ErrStateMissing
		}

		return model.PricingState{}, fmt.Errorf("get pricing state: %w", err)
	}

	return s, nil
}
