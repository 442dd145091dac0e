package users

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fastprodman/keyshop/internal/infra/pgtestutil"
	"github.com/fastprodman/keyshop/internal/repos/users"
)

func TestUsers_DecreaseBalance_Table(t *testing.T) {
	t.Parallel()

	type tc struct {
		name          string
		seed          bool
		seedCoins     int64
		amount        int64
		wantCoins     int64
		wantErr       bool // true -> expect users.ErrInsufficientFunds
		checkFinalBal bool
	}

	tests := []tc{
		{
			name:          "sufficient_funds_decrease_from_positive",
			seed:          true,
			seedCoins:     1_000,
			amount:        250,
			wantCoins:     750,
			checkFinalBal: true,
		},
		{
			name:          "sufficient_funds_exact_to_zero",
			seed:          true,
			seedCoins:     300,
			amount:        300,
			wantCoins:     0,
			checkFinalBal: true,
		},
		{
			name:          "insufficient_funds_balance_unchanged",
			seed:          true,
			seedCoins:     200,
			amount:        300,
			wantCoins:     200,
			wantErr:       true,
			checkFinalBal: true,
		},
		{
			name:    "user_missing_treated_as_insufficient",
			amount:  100,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			if tt.seed {
				pgtestutil.SeedUser(t, db, "u-dec", tt.seedCoins)
			}

			repo := New(db)

			ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
			defer cancel()

			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				t.Fatalf("begin tx: %v", err)
			}
			defer func() { _ = tx.Rollback() }()

			err = repo.DecreaseBalance(ctx, tx, "u-dec", tt.amount)

			if tt.wantErr {
				if !errors.Is(err, users.ErrInsufficientFunds) {
					t.Fatalf("expected ErrInsufficientFunds, got: %v", err)
				}
			} else {
				if err != nil {
					t.Fatalf("decrease balance: %v", err)
				}
				err = tx.Commit()
				if err != nil {
					t.Fatalf("commit: %v", err)
				}
			}

			if tt.checkFinalBal {
				got, gerr := repo.Get(ctx, "u-dec")
				if gerr != nil {
					t.Fatalf("get user after decrease: %v", gerr)
				}
				if got.Coins != tt.wantCoins {
					t.Fatalf("final balance mismatch: want %d, got %d", tt.wantCoins, got.Coins)
				}
			}
		})
	}
}

func TestUsers_DecreaseBalance_ConcurrentGuard(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	pgtestutil.SeedUser(t, db, "u-1", 1000)

	var wg sync.WaitGroup
	var mu sync.Mutex
	success, insufficient := 0, 0

	worker := func(name string) {
		defer wg.Done()

		ctx := context.Background()
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			t.Errorf("[%s] begin tx: %v", name, err)
			return
		}
		defer func() { _ = tx.Rollback() }()

		// Lock row first (this will serialize)
		_, err = repo.LockForUpdate(ctx, tx, "u-1")
		if err != nil {
			t.Errorf("[%s] lock user: %v", name, err)
			return
		}

		err = repo.DecreaseBalance(ctx, tx, "u-1", 1000)
		if err == nil {
			mu.Lock()
			success++
			mu.Unlock()
			if err := tx.Commit(); err != nil {
				t.Errorf("[%s] commit: %v", name, err)
			}
			return
		}

		if errors.Is(err, users.ErrInsufficientFunds) {
			mu.Lock()
			insufficient++
			mu.Unlock()
			return
		}

		t.Errorf("[%s] unexpected error: %v", name, err)
	}

	wg.Add(2)
	go worker("A")
	go worker("B")
	wg.Wait()

	if success != 1 || insufficient != 1 {
		t.Fatalf("want 1 success and 1 insufficient, got success=%d insufficient=%d", success, insufficient)
	}
}
