package payments

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/keyshop/internal/model"
	"github.com/fastprodman/keyshop/internal/repos/payments"
)

var _ payments.Payments = (*paymentsRepo)(nil)

const paymentColumns = `id, user_id, amount_currency, amount_coins, code, status, created_at, confirmed_at, confirmer_id`

type paymentsRepo struct{ db *sql.DB }

func New(db *sql.DB) *paymentsRepo {
	return &paymentsRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (model.Payment, error) {
	var (
		p           model.Payment
		status      string
		confirmedAt sql.NullTime
		confirmerID sql.NullString
	)

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.AmountCurrency,
		&p.AmountCoins,
		&p.Code,
		&status,
		&p.CreatedAt,
		&confirmedAt,
		&confirmerID,
	)
	if err != nil {
		return model.Payment{}, err
	}

	switch model.PaymentStatus(status) {
	case model.PaymentPending, model.PaymentConfirmed:
		p.Status = model.PaymentStatus(status)
	default:
		return model.Payment{}, fmt.Errorf("unknown payment status %q", status)
	}

	if confirmedAt.Valid {
		t := confirmedAt.Time
		p.ConfirmedAt = &t
	}
	if confirmerID.Valid {
		s := confirmerID.String
		p.ConfirmerID = &s
	}

	return p, nil
}
