package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/keyshop/internal/model"
	"github.com/fastprodman/keyshop/internal/repos/payments"
)

// Insert stores a pending payment. A taken code yields ErrCodeCollision
// without aborting tx, so the caller may retry with a fresh code.
func (r *paymentsRepo) Insert(
	ctx context.Context,
	tx *sql.Tx,
	userID, code string,
	amountCurrency, amountCoins int64,
) (model.Payment, error) {
	p, err := scanPayment(tx.QueryRowContext(ctx, `
		INSERT INTO payments (user_id, amount_currency, amount_coins, code)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT payments_code_key DO NOTHING
		RETURNING `+paymentColumns,
		userID, amountCurrency, amountCoins, code,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Payment{}, payments.ErrCodeCollision
		}

		return model.Payment{}, fmt.Errorf("insert payment: %w", err)
	}

	return p, nil
}
