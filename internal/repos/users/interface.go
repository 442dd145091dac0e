package users

import (
	"context"
	"database/sql"

	"github.com/fastprodman/keyshop/internal/model"
)

var (
	ErrInsufficientFunds = model.ErrInsufficientFunds
	ErrUserNotFound      = model.ErrUserNotFound
)

// Users is the coin ledger storage. Methods taking a *sql.Tx are meant to be
// composed inside a caller-owned transaction.
type Users interface {
	GetOrCreate(ctx context.Context, tx *sql.Tx, userID string) (model.User, error)
	Get(ctx context.Context, userID string) (model.User, error)
	LockForUpdate(ctx context.Context, tx *sql.Tx, userID string) (model.User, error)
	IncreaseBalance(ctx context.Context, tx *sql.Tx, userID string, coins, paid int64) error
	DecreaseBalance(ctx context.Context, tx *sql.Tx, userID string, coins int64) error
}
