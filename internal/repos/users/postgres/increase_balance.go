package users

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/keyshop/internal/repos/users"
)

// IncreaseBalance credits coins and adds paid (currency units) to the
// lifetime total.
func (r *usersRepo) IncreaseBalance(ctx context.Context, tx *sql.Tx, userID string, coins, paid int64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET coins = coins + $2,
		    total_paid = total_paid + $3,
		    last_seen_at = now()
		WHERE user_id = $1
	`, userID, coins, paid)
	if err != nil {
		return fmt.Errorf("increase balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return users.ErrUserNotFound
	}

	return nil
}
