package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/keyshop/internal/model"
	"github.com/fastprodman/keyshop/internal/repos/payments"
)

// MarkConfirmed flips a pending payment to confirmed. The status guard makes
// the transition one-way.
func (r *paymentsRepo) MarkConfirmed(ctx context.Context, tx *sql.Tx, id int64, confirmerID string) (model.Payment, error) {
	p, err := scanPayment(tx.QueryRowContext(ctx, `
		UPDATE payments
		SET status = 'confirmed',
		    confirmed_at = now(),
		    confirmer_id = $2
		WHERE id = $1
		  AND status = 'pending'
		RETURNING `+paymentColumns,
		id, confirmerID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Payment{}, payments.ErrAlreadyConfirmed
		}

		return model.Payment{}, fmt.Errorf("confirm payment: %w", err)
	}

	return p, nil
}
