// Package queries composes the read-only views served to clients.
package queries

import (
	"context"
	"fmt"

	"github.com/fastprodman/keyshop/internal/model"
	"github.com/fastprodman/keyshop/internal/repos/pricing"
	"github.com/fastprodman/keyshop/internal/repos/views"
	"github.com/fastprodman/keyshop/internal/services/ledger"
	pricingengine "github.com/fastprodman/keyshop/internal/services/pricing"
)

const MaxKeyHistory = 50

type Service struct {
	ledger *ledger.Service
	views  views.Views
	state  pricing.State
	engine pricingengine.Engine
}

func New(ledger *ledger.Service, v views.Views, state pricing.State, engine pricingengine.Engine) *Service {
	return &Service{
		ledger: ledger,
		views:  v,
		state:  state,
		engine: engine,
	}
}

// UserSnapshot returns the user's balance and the current key price,
// creating the user on first sight.
func (s *Service) UserSnapshot(ctx context.Context, userID string) (model.UserSnapshot, error) {
	u, err := s.ledger.GetOrCreate(ctx, userID)
	if err != nil {
		return model.UserSnapshot{}, fmt.Errorf("user snapshot: %w", err)
	}

	price, err := s.Price(ctx)
	if err != nil {
		return model.UserSnapshot{}, fmt.Errorf("user snapshot: %w", err)
	}

	return model.UserSnapshot{
		Coins:    u.Coins,
		KeyPrice: price,
		Username: u.Username,
	}, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (model.Profile, error) {
	err := model.ValidateUserID(userID)
	if err != nil {
		return model.Profile{}, err
	}

	p, err := s.views.Profile(ctx, userID)
	if err != nil {
		return model.Profile{}, model.StorageFailure("profile", err)
	}

	return p, nil
}

// KeyHistory lists the user's keys, newest first. limit is clamped to
// 1..MaxKeyHistory; zero or negative selects the maximum.
func (s *Service) KeyHistory(ctx context.Context, userID string, limit int) ([]model.KeyRecord, error) {
	err := model.ValidateUserID(userID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > MaxKeyHistory {
		limit = MaxKeyHistory
	}

	out, err := s.views.KeyHistory(ctx, userID, limit)
	if err != nil {
		return nil, model.StorageFailure("key history", err)
	}

	return out, nil
}

func (s *Service) Price(ctx context.Context) (int64, error) {
	st, err := s.state.Get(ctx)
	if err != nil {
		return 0, model.StorageFailure("key price", err)
	}

	return s.engine.PriceFor(st.KeysSold), nil
}

func (s *Service) Stats(ctx context.Context) (model.Stats, error) {
	st, err := s.views.Stats(ctx)
	if err != nil {
		return model.Stats{}, model.StorageFailure("stats", err)
	}

	st.CurrentPrice = s.engine.PriceFor(st.KeysSold)

	return st, nil
}

// Ping reports whether storage is reachable.
func (s *Service) Ping(ctx context.Context) error {
	err := s.views.Ping(ctx)
	if err != nil {
		return model.StorageFailure("ping", err)
	}

	return nil
}
