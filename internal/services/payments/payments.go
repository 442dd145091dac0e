// Package payments tracks payment requests from creation to confirmation.
package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"unicode"

	"github.com/fastprodman/keyshop/internal/infra/pgutils"
	"github.com/fastprodman/keyshop/internal/model"
	"github.com/fastprodman/keyshop/internal/repos/payments"
	pgpayments "github.com/fastprodman/keyshop/internal/repos/payments/postgres"
	"github.com/fastprodman/keyshop/internal/services/ledger"
	"github.com/fastprodman/keyshop/pkg/randtoken"
)

const (
	codePrefix       = "PAY-"
	codeRandomLen    = 10
	codeUserTailLen  = 4
	maxCodeAttempts  = 5
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// CodeFunc produces a candidate payment code for a user.
type CodeFunc func(userID string) (string, error)

type Service struct {
	db       *sql.DB
	payments payments.Payments
	ledger   *ledger.Service
	newCode  CodeFunc
	log      *slog.Logger
}

type Option func(*Service)

// WithCodeFunc replaces the random code generator.
func WithCodeFunc(fn CodeFunc) Option {
	return func(s *Service) { s.newCode = fn }
}

func New(db *sql.DB, ledger *ledger.Service, log *slog.Logger, opts ...Option) (*Service, error) {
	gen, err := randtoken.New(randtoken.Base36)
	if err != nil {
		return nil, fmt.Errorf("code generator: %w", err)
	}

	s := &Service{
		db:       db,
		payments: pgpayments.New(db),
		ledger:   ledger,
		newCode:  randomCode(gen),
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Create registers a pending payment for userID and returns it with its
// unique code.
func (s *Service) Create(ctx context.Context, userID string, amountCurrency, amountCoins int64) (model.Payment, error) {
	err := model.ValidateUserID(userID)
	if err != nil {
		return model.Payment{}, err
	}
	if amountCurrency <= 0 {
		return model.Payment{}, fmt.Errorf("%w: amount must be > 0, got %d", model.ErrInvalidInput, amountCurrency)
	}
	if amountCoins <= 0 {
		return model.Payment{}, fmt.Errorf("%w: coins must be > 0, got %d", model.ErrInvalidInput, amountCoins)
	}

	var p model.Payment
	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := s.ledger.EnsureInTx(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("ensure user: %w", err)
		}

		for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
			code, err := s.newCode(userID)
			if err != nil {
				return fmt.Errorf("generate code: %w", err)
			}

			p, err = s.payments.Insert(ctx, tx, userID, code, amountCurrency, amountCoins)
			if err == nil {
				return nil
			}
			if !errors.Is(err, payments.ErrCodeCollision) {
				return fmt.Errorf("insert payment: %w", err)
			}

			s.log.WarnContext(ctx, "payment code collision",
				slog.String("user_id", userID),
				slog.Int("attempt", attempt),
			)
		}

		return payments.ErrCodeCollision
	})
	if err != nil {
		return model.Payment{}, model.StorageFailure("create payment", err)
	}

	s.log.InfoContext(ctx, "payment created",
		slog.String("user_id", userID),
		slog.String("code", p.Code),
		slog.Int64("amount", p.AmountCurrency),
		slog.Int64("coins", p.AmountCoins),
	)

	return p, nil
}

// Confirm marks the payment confirmed and credits its owner in the same
// transaction. Confirming an already confirmed payment returns it unchanged
// and credits nothing.
func (s *Service) Confirm(ctx context.Context, code, confirmerID string) (model.Payment, error) {
	if code == "" {
		return model.Payment{}, fmt.Errorf("%w: payment code is required", model.ErrInvalidInput)
	}
	if confirmerID == "" {
		return model.Payment{}, fmt.Errorf("%w: confirmer id is required", model.ErrInvalidInput)
	}

	var (
		p        model.Payment
		credited bool
	)
	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		// lock order: payment row, then user row
		locked, err := s.payments.LockByCode(ctx, tx, code)
		if err != nil {
			return fmt.Errorf("lock payment: %w", err)
		}

		if locked.Confirmed() {
			p = locked
			return nil
		}

		_, err = s.ledger.CreditInTx(ctx, tx, locked.UserID, locked.AmountCoins, locked.AmountCurrency)
		if err != nil {
			return fmt.Errorf("credit owner: %w", err)
		}

		p, err = s.payments.MarkConfirmed(ctx, tx, locked.ID, confirmerID)
		if err != nil {
			return fmt.Errorf("mark confirmed: %w", err)
		}

		credited = true
		return nil
	})
	if err != nil {
		return model.Payment{}, model.StorageFailure("confirm payment", err)
	}

	if credited {
		s.log.InfoContext(ctx, "payment confirmed",
			slog.String("code", p.Code),
			slog.String("user_id", p.UserID),
			slog.Int64("coins", p.AmountCoins),
			slog.String("confirmer_id", confirmerID),
		)
	}

	return p, nil
}

// Check reports whether the payment is confirmed. Unknown codes and codes
// owned by another user both read as unconfirmed with zero coins.
func (s *Service) Check(ctx context.Context, code, userID string) (model.PaymentCheck, error) {
	p, err := s.payments.GetForUser(ctx, code, userID)
	if err != nil {
		if errors.Is(err, payments.ErrPaymentNotFound) {
			return model.PaymentCheck{}, nil
		}

		return model.PaymentCheck{}, model.StorageFailure("check payment", err)
	}

	if !p.Confirmed() {
		return model.PaymentCheck{}, nil
	}

	return model.PaymentCheck{Confirmed: true, Coins: p.AmountCoins}, nil
}

// ListPending returns pending payments, oldest first. limit <= 0 selects
// DefaultListLimit; larger values are capped at MaxListLimit.
func (s *Service) ListPending(ctx context.Context, limit int) ([]model.Payment, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	out, err := s.payments.ListPending(ctx, limit)
	if err != nil {
		return nil, model.StorageFailure("list pending payments", err)
	}

	return out, nil
}

func randomCode(gen *randtoken.Generator) CodeFunc {
	return func(userID string) (string, error) {
		suffix, err := gen.String(codeRandomLen)
		if err != nil {
			return "", err
		}

		return codePrefix + userTail(userID) + "-" + suffix, nil
	}
}

// userTail is the last four alphanumerics of userID, upper-cased, or "USER"
// when the id has none.
func userTail(userID string) string {
	var alnum []rune
	for _, r := range userID {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			alnum = append(alnum, unicode.ToUpper(r))
		}
	}

	if len(alnum) == 0 {
		return "USER"
	}
	if len(alnum) > codeUserTailLen {
		alnum = alnum[len(alnum)-codeUserTailLen:]
	}

	return string(alnum)
}
