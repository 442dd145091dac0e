package pricing

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/keyshop/internal/model"
	"github.com/fastprodman/keyshop/internal/repos/pricing"
)

// Save writes next only if the stored counter still equals prev.KeysSold.
func (r *stateRepo) Save(ctx context.Context, tx *sql.Tx, prev, next model.PricingState) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE pricing_state
		SET keys_sold = $1,
		    current_price = $2
		WHERE id = 1
		  AND keys_sold = $3
	`, next.KeysSold, next.CurrentPrice, prev.KeysSold)
	if err != nil {
		return fmt.Errorf("save pricing state: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return pricing.ErrStateConflict
	}

	return nil
}
