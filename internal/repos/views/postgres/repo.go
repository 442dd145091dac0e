package views

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fastprodman/keyshop/internal/infra/pgutils"
	"github.com/fastprodman/keyshop/internal/model"
	"github.com/fastprodman/keyshop/internal/repos/views"
)

var _ views.Views = (*viewsRepo)(nil)

type viewsRepo struct{ db *sqlx.DB }

// New wraps an existing pool; the repo does not own it.
func New(db *sql.DB) *viewsRepo {
	return &viewsRepo{db: sqlx.NewDb(db, pgutils.DriverName)}
}

func (r *viewsRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *viewsRepo) Profile(ctx context.Context, userID string) (model.Profile, error) {
	var p model.Profile

	err := r.db.GetContext(ctx, &p, `
		SELECT u.user_id,
		       u.username,
		       u.display_name,
		       u.coins,
		       u.total_paid,
		       u.registered_at,
		       (SELECT COUNT(*) FROM keys k WHERE k.user_id = u.user_id) AS keys_count
		FROM users u
		WHERE u.user_id = $1
	`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, views.ErrUserNotFound
		}

		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return p, nil
}

func (r *viewsRepo) KeyHistory(ctx context.Context, userID string, limit int) ([]model.KeyRecord, error) {
	out := []model.KeyRecord{}

	err := r.db.SelectContext(ctx, &out, `
		SELECT key_value, issued_at, price_paid
		FROM keys
		WHERE user_id = $1
		ORDER BY issued_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select key history: %w", err)
	}

	return out, nil
}

// Stats reads every aggregate inside one repeatable-read snapshot.
func (r *viewsRepo) Stats(ctx context.Context) (model.Stats, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return model.Stats{}, fmt.Errorf("begin stats tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var s model.Stats

	err = tx.GetContext(ctx, &s, `
		SELECT (SELECT COUNT(*) FROM users) AS users,
		       COALESCE((SELECT keys_sold FROM pricing_state WHERE id = 1), 0) AS keys_sold,
		       (SELECT COALESCE(SUM(amount_currency), 0)::BIGINT FROM payments WHERE status = 'confirmed') AS total_earned
	`)
	if err != nil {
		return model.Stats{}, fmt.Errorf("select stats: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return model.Stats{}, fmt.Errorf("commit stats tx: %w", err)
	}

	return s, nil
}
