package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fastprodman/keyshop/internal/infra/logging"
	"github.com/fastprodman/keyshop/internal/infra/pgtestutil"
	"github.com/fastprodman/keyshop/internal/model"
)

func TestLedger_Credit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		seed      *int64
		coins     int64
		paid      int64
		wantCoins int64
		wantErr   error
	}{
		{name: "creates_missing_user", coins: 100, paid: 10, wantCoins: 100},
		{name: "adds_to_existing", seed: ptr(int64(50)), coins: 100, paid: 10, wantCoins: 150},
		{name: "zero_coins_rejected", coins: 0, wantErr: model.ErrInvalidInput},
		{name: "negative_paid_rejected", coins: 10, paid: -1, wantErr: model.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			if tt.seed != nil {
				pgtestutil.SeedUser(t, db, "u-1", *tt.seed)
			}

			svc := New(db, logging.Discard())

			u, err := svc.Credit(t.Context(), "u-1", tt.coins, tt.paid)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr != nil {
				if errors.Is(err, model.ErrStorageUnavailable) {
					t.Fatalf("validation error tagged as storage failure: %v", err)
				}
				return
			}
			if u.Coins != tt.wantCoins {
				t.Fatalf("returned balance: want %d, got %d", tt.wantCoins, u.Coins)
			}

			stored, err := svc.Get(t.Context(), "u-1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if stored.Coins != tt.wantCoins || stored.LifetimePaid != tt.paid {
				t.Fatalf("stored user mismatch: %+v", stored)
			}
		})
	}
}

func TestLedger_Debit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		seed      *int64
		coins     int64
		wantCoins int64
		wantErr   error
	}{
		{name: "exact_balance", seed: ptr(int64(100)), coins: 100, wantCoins: 0},
		{name: "partial", seed: ptr(int64(100)), coins: 40, wantCoins: 60},
		{name: "insufficient", seed: ptr(int64(99)), coins: 100, wantCoins: 99, wantErr: model.ErrInsufficientFunds},
		{name: "missing_user", coins: 1, wantErr: model.ErrUserNotFound},
		{name: "non_positive", seed: ptr(int64(10)), coins: 0, wantCoins: 10, wantErr: model.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			if tt.seed != nil {
				pgtestutil.SeedUser(t, db, "u-1", *tt.seed)
			}

			svc := New(db, logging.Discard())

			_, err := svc.Debit(t.Context(), "u-1", tt.coins)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}

			if tt.seed == nil {
				_, err = svc.Get(t.Context(), "u-1")
				if !errors.Is(err, model.ErrUserNotFound) {
					t.Fatalf("debit created a user: %v", err)
				}
				return
			}

			u, err := svc.Get(t.Context(), "u-1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if u.Coins != tt.wantCoins {
				t.Fatalf("balance: want %d, got %d", tt.wantCoins, u.Coins)
			}
		})
	}
}

func TestLedger_ConcurrentDebits_NeverNegative(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	userID := uuid.NewString()
	pgtestutil.SeedUser(t, db, userID, 500)

	svc := New(db, logging.Discard())

	ctx, cancel := context.WithTimeout(t.Context(), 30*time.Second)
	defer cancel()

	var g errgroup.Group
	results := make([]error, 20)
	for i := range results {
		g.Go(func() error {
			_, results[i] = svc.Debit(ctx, userID, 100)
			return nil
		})
	}
	_ = g.Wait()

	ok := 0
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, model.ErrInsufficientFunds):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 5 {
		t.Fatalf("want 5 successful debits, got %d", ok)
	}

	u, err := svc.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Coins != 0 {
		t.Fatalf("final balance: want 0, got %d", u.Coins)
	}
}

func TestLedger_GetOrCreate_InvalidID(t *testing.T) {
	t.Parallel()

	// validation runs before any storage access, so no database is needed
	svc := New(nil, logging.Discard())

	_, err := svc.GetOrCreate(t.Context(), "")
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func ptr[T any](v T) *T { return &v }
