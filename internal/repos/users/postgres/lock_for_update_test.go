package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fastprodman/keyshop/internal/infra/pgtestutil"
	"github.com/fastprodman/keyshop/internal/repos/users"
)

func TestUsers_LockForUpdate_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		seed      bool
		seedCoins int64
		wantCoins int64
		wantErr   error
	}{
		{name: "user_exists_zero_balance", seed: true, seedCoins: 0, wantCoins: 0},
		{name: "user_exists_positive_balance", seed: true, seedCoins: 12345, wantCoins: 12345},
		{name: "user_not_found", wantErr: users.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			if tt.seed {
				pgtestutil.SeedUser(t, db, "u-lock", tt.seedCoins)
			}

			repo := New(db)

			ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
			defer cancel()

			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				t.Fatalf("begin tx: %v", err)
			}
			defer func() { _ = tx.Rollback() }()

			u, err := repo.LockForUpdate(ctx, tx, "u-lock")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.Coins != tt.wantCoins {
				t.Fatalf("balance mismatch: want %d, got %d", tt.wantCoins, u.Coins)
			}
		})
	}
}

// A second FOR UPDATE on the same row must block until the first tx ends.
func TestUsers_LockForUpdate_LocksRow(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	pgtestutil.SeedUser(t, db, "u-42", 200)

	repo := New(db)

	ctx1, cancel1 := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel1()

	tx1, err := db.BeginTx(ctx1, nil)
	if err != nil {
		t.Fatalf("begin tx1: %v", err)
	}
	defer func() { _ = tx1.Rollback() }()

	_, err = repo.LockForUpdate(ctx1, tx1, "u-42")
	if err != nil {
		t.Fatalf("tx1 lock: %v", err)
	}

	locked := make(chan struct{})
	errCh := make(chan error, 1)

	go func() {
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()

		tx2, e := db.BeginTx(ctx2, nil)
		if e != nil {
			errCh <- e
			return
		}
		defer func() { _ = tx2.Rollback() }()

		_, e = repo.LockForUpdate(ctx2, tx2, "u-42")
		if e != nil {
			errCh <- e
			return
		}
		close(locked)

		errCh <- tx2.Commit()
	}()

	select {
	case <-locked:
		t.Fatal("tx2 acquired the lock while tx1 still holds it")
	case e := <-errCh:
		t.Fatalf("tx2 finished early: %v", e)
	case <-time.After(300 * time.Millisecond):
	}

	err = tx1.Commit()
	if err != nil {
		t.Fatalf("commit tx1: %v", err)
	}

	select {
	case e := <-errCh:
		if e != nil {
			t.Fatalf("tx2 error: %v", e)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for tx2 to complete after tx1 commit")
	}
}
