package users

import (
	"database/sql"

	"github.com/fastprodman/keyshop/internal/model"
	"github.com/fastprodman/keyshop/internal/repos/users"
)

var _ users.Users = (*usersRepo)(nil)

const userColumns = `user_id, username, display_name, coins, total_paid, registered_at, last_seen_at`

type usersRepo struct{ db *sql.DB }

func New(db *sql.DB) *usersRepo {
	return &usersRepo{db: db}
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.DisplayName,
		&u.Coins,
		&u.LifetimePaid,
		&u.RegisteredAt,
		&u.LastSeenAt,
	)

	return u, err
}
