package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/keyshop/internal/model"
	"github.com/fastprodman/keyshop/internal/repos/users"
)

func (r *usersRepo) LockForUpdate(ctx context.Context, tx *sql.Tx, userID string) (model.User, error) {
	u, err := scanUser(tx.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE user_id = $1
		FOR UPDATE
	`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, users.ErrUserNotFound
		}

		return model.User{}, fmt.Errorf("lock user: %w", err)
	}

	return u, nil
}
