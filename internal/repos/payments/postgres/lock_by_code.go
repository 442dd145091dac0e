package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/keyshop/internal/model"
	"github.com/fastprodman/keyshop/internal/repos/payments"
)

func (r *paymentsRepo) LockByCode(ctx context.Context, tx *sql.Tx, code string) (model.Payment, error) {
	p, err := scanPayment(tx.QueryRowContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE code = $1
		FOR UPDATE
	`, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Payment{}, payments.ErrPaymentNotFound
		}

		return model.Payment{}, fmt.Errorf("lock payment: %w", err)
	}

	return p, nil
}
