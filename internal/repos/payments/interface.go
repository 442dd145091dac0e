package payments

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fastprodman/keyshop/internal/model"
)

var (
	ErrPaymentNotFound  = model.ErrPaymentNotFound
	ErrCodeCollision    = model.ErrCodeCollision
	ErrAlreadyConfirmed = errors.New("payment already confirmed")
)

type Payments interface {
	Insert(ctx context.Context, tx *sql.Tx, userID, code string, amountCurrency, amountCoins int64) (model.Payment, error)
	LockByCode(ctx context.Context, tx *sql.Tx, code string) (model.Payment, error)
	MarkConfirmed(ctx context.Context, tx *sql.Tx, id int64, confirmerID string) (model.Payment, error)
	GetForUser(ctx context.Context, code, userID string) (model.Payment, error)
	ListPending(ctx context.Context, limit int) ([]model.Payment, error)
}
