package keys

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastprodman/keyshop/internal/infra/pgtestutil"
	"github.com/fastprodman/keyshop/internal/repos/keys"
)

func TestKeys_Insert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		seed    func(db *sql.DB) // prepare users/keys if needed
		userID  string
		value   string
		price   int64
		wantErr error
	}{
		{
			name: "ok_insert",
			seed: func(db *sql.DB) {
				pgtestutil.SeedUser(t, db, "u-1", 100)
			},
			userID: "u-1",
			value:  "KEY-AAAAAAAAAAAAAAAA",
			price:  100,
		},
		{
			name: "duplicate_key_value",
			seed: func(db *sql.DB) {
				pgtestutil.SeedUser(t, db, "u-2", 100)
				_, err := db.Exec(`INSERT INTO keys (user_id, key_value, price_paid) VALUES ($1, $2, $3)`, "u-2", "KEY-DUPDUPDUPDUPDUPD", 100)
				if err != nil {
					t.Fatalf("seed key: %v", err)
				}
			},
			userID:  "u-2",
			value:   "KEY-DUPDUPDUPDUPDUPD",
			price:   110,
			wantErr: keys.ErrKeyCollision,
		},
		{
			name:    "user_not_exist_fk_violation",
			seed:    func(db *sql.DB) {}, // no user seeded
			userID:  "ghost",
			value:   "KEY-BBBBBBBBBBBBBBBB",
			price:   100,
			wantErr: &pgconn.PgError{}, // expect a wrapped pg error
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			repo := New(db)

			if tt.seed != nil {
				tt.seed(db)
			}

			ctx := context.Background()
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				t.Fatalf("begin tx: %v", err)
			}
			defer func() { _ = tx.Rollback() }()

			got, err := repo.Insert(ctx, tx, tt.userID, tt.value, tt.price)

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got.ID == 0 || got.IssuedAt.IsZero() {
					t.Fatalf("returned key missing generated columns: %+v", got)
				}
				if got.Value != tt.value || got.PricePaid != tt.price || got.UserID != tt.userID {
					t.Fatalf("returned key mismatch: %+v", got)
				}
				return
			}

			// Handle pg error type separately
			var pgErr *pgconn.PgError
			if errors.As(tt.wantErr, &pgErr) {
				if !errors.As(err, &pgErr) {
					t.Fatalf("expected pg error, got %v", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("unexpected error: got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
