package views

import (
	"errors"
	"testing"
	"time"

	"github.com/fastprodman/keyshop/internal/infra/pgtestutil"
	"github.com/fastprodman/keyshop/internal/repos/views"
)

func TestViews_Profile(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	pgtestutil.SeedUser(t, db, "u-1", 250)
	_, err := db.Exec(`
		INSERT INTO keys (user_id, key_value, price_paid)
		VALUES ('u-1', 'KEY-1', 100), ('u-1', 'KEY-2', 110)
	`)
	if err != nil {
		t.Fatalf("seed keys: %v", err)
	}

	repo := New(db)

	tests := []struct {
		name      string
		userID    string
		wantKeys  int64
		wantCoins int64
		wantErr   error
	}{
		{name: "existing_user", userID: "u-1", wantKeys: 2, wantCoins: 250},
		{name: "missing_user_not_created", userID: "ghost", wantErr: views.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := repo.Profile(t.Context(), tt.userID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr != nil {
				return
			}
			if p.KeysCount != tt.wantKeys || p.Coins != tt.wantCoins || p.UserID != tt.userID {
				t.Fatalf("unexpected profile: %+v", p)
			}
		})
	}

	var n int
	err = db.QueryRow(`SELECT COUNT(*) FROM users WHERE user_id = 'ghost'`).Scan(&n)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("profile lookup created a user")
	}
}

func TestViews_KeyHistory_NewestFirstAndLimited(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	pgtestutil.SeedUser(t, db, "u-1", 0)
	pgtestutil.SeedUser(t, db, "u-2", 0)

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, v := range []string{"KEY-OLD", "KEY-MID", "KEY-NEW"} {
		_, err := db.Exec(`INSERT INTO keys (user_id, key_value, price_paid, issued_at) VALUES ('u-1', $1, $2, $3)`,
			v, 100+10*i, base.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("seed key: %v", err)
		}
	}
	_, err := db.Exec(`INSERT INTO keys (user_id, key_value, price_paid) VALUES ('u-2', 'KEY-FOREIGN', 100)`)
	if err != nil {
		t.Fatalf("seed foreign key: %v", err)
	}

	repo := New(db)

	got, err := repo.KeyHistory(t.Context(), "u-1", 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(got) != 2 || got[0].Value != "KEY-NEW" || got[1].Value != "KEY-MID" {
		t.Fatalf("unexpected history: %+v", got)
	}
	if got[0].Price != 120 {
		t.Fatalf("price mismatch: %+v", got[0])
	}

	empty, err := repo.KeyHistory(t.Context(), "nobody", 10)
	if err != nil {
		t.Fatalf("history empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", empty)
	}
}

func TestViews_Stats(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	pgtestutil.SeedUser(t, db, "u-1", 0)
	pgtestutil.SeedUser(t, db, "u-2", 0)
	pgtestutil.SetKeysSold(t, db, 3, 130)

	_, err := db.Exec(`
		INSERT INTO payments (user_id, amount_currency, amount_coins, code, status, confirmed_at)
		VALUES ('u-1', 10, 100, 'PAY-1', 'confirmed', now()),
		       ('u-2', 25, 250, 'PAY-2', 'confirmed', now())
	`)
	if err != nil {
		t.Fatalf("seed confirmed: %v", err)
	}
	_, err = db.Exec(`INSERT INTO payments (user_id, amount_currency, amount_coins, code) VALUES ('u-1', 99, 990, 'PAY-3')`)
	if err != nil {
		t.Fatalf("seed pending: %v", err)
	}

	repo := New(db)

	s, err := repo.Stats(t.Context())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if s.Users != 2 || s.KeysSold != 3 || s.TotalEarned != 35 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}
