package users

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/keyshop/internal/model"
)

// GetOrCreate upserts the user in one statement, so concurrent first
// lookups of the same id never insert twice. An existing row only gets its
// last_seen_at refreshed.
func (r *usersRepo) GetOrCreate(ctx context.Context, tx *sql.Tx, userID string) (model.User, error) {
	u, err := scanUser(tx.QueryRowContext(ctx, `
		INSERT INTO users (user_id, username, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET last_seen_at = now()
		RETURNING `+userColumns,
		userID, model.DefaultUsername, model.DefaultDisplayName,
	))
	if err != nil {
		return model.User{}, fmt.Errorf("upsert user: %w", err)
	}

	return u, nil
}
