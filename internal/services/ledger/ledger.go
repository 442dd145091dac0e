// Package ledger owns user records and their coin balances.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fastprodman/keyshop/internal/infra/pgutils"
	"github.com/fastprodman/keyshop/internal/model"
	"github.com/fastprodman/keyshop/internal/repos/users"
	pgusers "github.com/fastprodman/keyshop/internal/repos/users/postgres"
)

type Service struct {
	db    *sql.DB
	users users.Users
	log   *slog.Logger
}

func New(db *sql.DB, log *slog.Logger) *Service {
	return &Service{
		db:    db,
		users: pgusers.New(db),
		log:   log,
	}
}

// GetOrCreate returns the user, creating it with defaults on first sight.
func (s *Service) GetOrCreate(ctx context.Context, userID string) (model.User, error) {
	err := model.ValidateUserID(userID)
	if err != nil {
		return model.User{}, err
	}

	var u model.User
	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		u, err = s.EnsureInTx(ctx, tx, userID)
		return err
	})
	if err != nil {
		return model.User{}, model.StorageFailure("get or create user", err)
	}

	return u, nil
}

// EnsureInTx is GetOrCreate inside a caller-owned transaction.
func (s *Service) EnsureInTx(ctx context.Context, tx *sql.Tx, userID string) (model.User, error) {
	err := model.ValidateUserID(userID)
	if err != nil {
		return model.User{}, err
	}

	return s.users.GetOrCreate(ctx, tx, userID)
}

// Credit adds coins (and the currency amount paid for them) to the user's
// balance, creating the user if needed.
func (s *Service) Credit(ctx context.Context, userID string, coins, paid int64) (model.User, error) {
	var u model.User
	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		u, err = s.CreditInTx(ctx, tx, userID, coins, paid)
		return err
	})
	if err != nil {
		return model.User{}, model.StorageFailure("credit", err)
	}

	s.log.DebugContext(ctx, "coins credited",
		slog.String("user_id", userID),
		slog.Int64("coins", coins),
		slog.Int64("balance", u.Coins),
	)

	return u, nil
}

// CreditInTx is Credit inside a caller-owned transaction. It locks the user
// row, so callers holding other row locks must take them in a consistent
// order.
func (s *Service) CreditInTx(ctx context.Context, tx *sql.Tx, userID string, coins, paid int64) (model.User, error) {
	err := model.ValidateUserID(userID)
	if err != nil {
		return model.User{}, err
	}
	if coins <= 0 {
		return model.User{}, fmt.Errorf("%w: coins must be > 0, got %d", model.ErrInvalidInput, coins)
	}
	if paid < 0 {
		return model.User{}, fmt.Errorf("%w: paid amount must be >= 0, got %d", model.ErrInvalidInput, paid)
	}

	// 1) Ensure user exists
	_, err = s.users.GetOrCreate(ctx, tx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("ensure user: %w", err)
	}

	// 2) Lock user row
	u, err := s.users.LockForUpdate(ctx, tx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("lock user: %w", err)
	}

	// 3) Apply the effect
	err = s.users.IncreaseBalance(ctx, tx, userID, coins, paid)
	if err != nil {
		return model.User{}, fmt.Errorf("increase balance: %w", err)
	}

	u.Coins += coins
	u.LifetimePaid += paid

	return u, nil
}

// Debit removes coins from an existing user. It never creates users.
func (s *Service) Debit(ctx context.Context, userID string, coins int64) (model.User, error) {
	var u model.User
	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		u, err = s.DebitInTx(ctx, tx, userID, coins)
		return err
	})
	if err != nil {
		return model.User{}, model.StorageFailure("debit", err)
	}

	s.log.DebugContext(ctx, "coins debited",
		slog.String("user_id", userID),
		slog.Int64("coins", coins),
		slog.Int64("balance", u.Coins),
	)

	return u, nil
}

func (s *Service) DebitInTx(ctx context.Context, tx *sql.Tx, userID string, coins int64) (model.User, error) {
	err := model.ValidateUserID(userID)
	if err != nil {
		return model.User{}, err
	}
	if coins <= 0 {
		return model.User{}, fmt.Errorf("%w: coins must be > 0, got %d", model.ErrInvalidInput, coins)
	}

	u, err := s.users.LockForUpdate(ctx, tx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("lock user: %w", err)
	}

	// pre-check against locked balance
	if u.Coins < coins {
		return model.User{}, fmt.Errorf("pre-check debit: %w", users.ErrInsufficientFunds)
	}

	err = s.users.DecreaseBalance(ctx, tx, userID, coins)
	if err != nil {
		return model.User{}, fmt.Errorf("decrease balance: %w", err)
	}

	u.Coins -= coins

	return u, nil
}

// Get reads a user without creating it.
func (s *Service) Get(ctx context.Context, userID string) (model.User, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return model.User{}, model.StorageFailure("get user", err)
	}

	return u, nil
}
