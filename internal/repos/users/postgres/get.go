package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/keyshop/internal/model"
	"github.com/fastprodman/keyshop/internal/repos/users"
)

func (r *usersRepo) Get(ctx context.Context, userID string) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE user_id = $1
	`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, users.ErrUserNotFound
		}

		return model.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}
