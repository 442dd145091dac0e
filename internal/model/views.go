package model

import "time"

// Read models returned by the query facade. The db tags are used by the
// sqlx-backed views repository.

type UserSnapshot struct {
	Coins    int64
	KeyPrice int64
	Username string
}

type Profile struct {
	UserID       string    `db:"user_id"`
	Username     string    `db:"username"`
	DisplayName  string    `db:"display_name"`
	Coins        int64     `db:"coins"`
	LifetimePaid int64     `db:"total_paid"`
	KeysCount    int64     `db:"keys_count"`
	RegisteredAt time.Time `db:"registered_at"`
}

type KeyRecord struct {
	Value    string    `db:"key_value"`
	IssuedAt time.Time `db:"issued_at"`
	Price    int64     `db:"price_paid"`
}

type Stats struct {
	Users        int64 `db:"users"`
	KeysSold     int64 `db:"keys_sold"`
	TotalEarned  int64 `db:"total_earned"`
	CurrentPrice int64 `db:"-"`
}

type PaymentCheck struct {
	Confirmed bool
	Coins     int64
}

type Purchase struct {
	Key      Key
	NewPrice int64
}
