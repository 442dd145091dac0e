package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/keyshop/internal/model"
	"github.com/fastprodman/keyshop/internal/repos/payments"
)

// GetForUser matches on code and owner together, so a foreign code is
// indistinguishable from an unknown one.
func (r *paymentsRepo) GetForUser(ctx context.Context, code, userID string) (model.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE code = $1
		  AND user_id = $2
	`, code, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Payment{}, payments.ErrPaymentNotFound
		}

		return model.Payment{}, fmt.Errorf("get payment: %w", err)
	}

	return p, nil
}
