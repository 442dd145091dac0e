// Package issuance sells keys: it debits the buyer, mints a unique key and
// advances the price, all in one transaction.
package issuance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fastprodman/keyshop/internal/infra/pgutils"
	"github.com/fastprodman/keyshop/internal/model"
	"github.com/fastprodman/keyshop/internal/repos/keys"
	pgkeys "github.com/fastprodman/keyshop/internal/repos/keys/postgres"
	"github.com/fastprodman/keyshop/internal/repos/pricing"
	pgpricing "github.com/fastprodman/keyshop/internal/repos/pricing/postgres"
	"github.com/fastprodman/keyshop/internal/services/ledger"
	pricingengine "github.com/fastprodman/keyshop/internal/services/pricing"
	"github.com/fastprodman/keyshop/pkg/randtoken"
)

const (
	keyPrefix      = "KEY-"
	keyRandomLen   = 16
	maxKeyAttempts = 3
)

// KeyFunc produces a candidate key value.
type KeyFunc func() (string, error)

type Service struct {
	db     *sql.DB
	ledger *ledger.Service
	state  pricing.State
	keys   keys.Keys
	engine pricingengine.Engine
	newKey KeyFunc
	log    *slog.Logger
}

type Option func(*Service)

// WithKeyFunc replaces the random key generator.
func WithKeyFunc(fn KeyFunc) Option {
	return func(s *Service) { s.newKey = fn }
}

func New(
	db *sql.DB,
	ledger *ledger.Service,
	engine pricingengine.Engine,
	log *slog.Logger,
	opts ...Option,
) (*Service, error) {
	err := engine.Validate()
	if err != nil {
		return nil, fmt.Errorf("pricing engine: %w", err)
	}

	gen, err := randtoken.New(randtoken.Base36)
	if err != nil {
		return nil, fmt.Errorf("key generator: %w", err)
	}

	s := &Service{
		db:     db,
		ledger: ledger,
		state:  pgpricing.New(db),
		keys:   pgkeys.New(db),
		engine: engine,
		newKey: randomKey(gen),
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Purchase sells one key to userID at the current price. A missing user
// is treated like one with no coins. A key value collision rolls the whole
// sale back and retries it with a fresh value.
func (s *Service) Purchase(ctx context.Context, userID string) (model.Purchase, error) {
	err := model.ValidateUserID(userID)
	if err != nil {
		return model.Purchase{}, err
	}

	var res model.Purchase
	for attempt := 1; attempt <= maxKeyAttempts; attempt++ {
		res, err = s.purchaseOnce(ctx, userID)
		if err == nil {
			break
		}
		if !errors.Is(err, keys.ErrKeyCollision) {
			return model.Purchase{}, model.StorageFailure("purchase", err)
		}

		s.log.WarnContext(ctx, "key value collision, retrying",
			slog.String("user_id", userID),
			slog.Int("attempt", attempt),
		)
	}
	if err != nil {
		return model.Purchase{}, model.StorageFailure("purchase", err)
	}

	s.log.InfoContext(ctx, "key purchased",
		slog.String("user_id", userID),
		slog.Int64("price", res.Key.PricePaid),
		slog.Int64("new_price", res.NewPrice),
	)

	return res, nil
}

func (s *Service) purchaseOnce(ctx context.Context, userID string) (model.Purchase, error) {
	var res model.Purchase

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		// 1) Lock pricing state; every sale serializes here
		prev, err := s.state.LockState(ctx, tx)
		if err != nil {
			return fmt.Errorf("lock pricing state: %w", err)
		}

		price := s.engine.PriceFor(prev.KeysSold)

		// 2) Lock user row and debit
		_, err = s.ledger.DebitInTx(ctx, tx, userID, price)
		if err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				return fmt.Errorf("debit: %w", model.ErrInsufficientFunds)
			}
			return fmt.Errorf("debit: %w", err)
		}

		// 3) Mint the key
		value, err := s.newKey()
		if err != nil {
			return fmt.Errorf("generate key: %w", err)
		}

		k, err := s.keys.Insert(ctx, tx, userID, value, price)
		if err != nil {
			return fmt.Errorf("insert key: %w", err)
		}

		// 4) Advance the price
		next := s.engine.Advance(prev)
		err = s.state.Save(ctx, tx, prev, next)
		if err != nil {
			return fmt.Errorf("advance pricing state: %w", err)
		}

		res = model.Purchase{Key: k, NewPrice: next.CurrentPrice}
		return nil
	})

	return res, err
}

func randomKey(gen *randtoken.Generator) KeyFunc {
	return func() (string, error) {
		v, err := gen.String(keyRandomLen)
		if err != nil {
			return "", err
		}

		return keyPrefix + v, nil
	}
}
