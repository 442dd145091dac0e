package users

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/keyshop/internal/repos/users"
)

// DecreaseBalance debits coins. The WHERE guard keeps the balance
// non-negative even without a prior lock; zero affected rows means the user
// is missing or short of coins, both reported as ErrInsufficientFunds.
func (r *usersRepo) DecreaseBalance(ctx context.Context, tx *sql.Tx, userID string, coins int64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET coins = coins - $2,
		    last_seen_at = now()
		WHERE user_id = $1
		  AND coins >= $2
	`, userID, coins)
	if err != nil {
		return fmt.Errorf("decrease balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return users.ErrInsufficientFunds
	}

	return nil
}
