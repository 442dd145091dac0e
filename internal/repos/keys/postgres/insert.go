package keys

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/keyshop/internal/infra/pgutils"
	"github.com/fastprodman/keyshop/internal/model"
	"github.com/fastprodman/keyshop/internal/repos/keys"
)

const keyValueConstraint = "keys_key_value_key"

var _ keys.Keys = (*keysRepo)(nil)

type keysRepo struct{ db *sql.DB }

func New(db *sql.DB) *keysRepo {
	return &keysRepo{db: db}
}

func (r *keysRepo) Insert(ctx context.Context, tx *sql.Tx, userID, value string, price int64) (model.Key, error) {
	k := model.Key{
		UserID:    userID,
		Value:     value,
		PricePaid: price,
	}

	err := tx.QueryRowContext(ctx, `
		INSERT INTO keys (user_id, key_value, price_paid)
		VALUES ($1, $2, $3)
		RETURNING id, issued_at
	`, userID, value, price).Scan(&k.ID, &k.IssuedAt)
	if err != nil {
		if pgutils.IsUniqueViolation(err, keyValueConstraint) {
			return model.Key{}, keys.ErrKeyCollision
		}

		return model.Key{}, fmt.Errorf("insert key: %w", err)
	}

	return k, nil
}
