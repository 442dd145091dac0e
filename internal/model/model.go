package model

import (
	"fmt"
	"time"
	"unicode"
)

const (
	DefaultUsername    = "android_user"
	DefaultDisplayName = "Android User"
)

type User struct {
	ID           string
	Username     string
	DisplayName  string
	Coins        int64
	LifetimePaid int64 // currency units
	RegisteredAt time.Time
	LastSeenAt   time.Time
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
)

type Payment struct {
	ID             int64
	UserID         string
	AmountCurrency int64
	AmountCoins    int64
	Code           string
	Status         PaymentStatus
	CreatedAt      time.Time
	ConfirmedAt    *time.Time
	ConfirmerID    *string
}

func (p Payment) Confirmed() bool {
	return p.Status == PaymentConfirmed
}

type Key struct {
	ID        int64
	UserID    string
	Value     string
	IssuedAt  time.Time
	PricePaid int64
}

// PricingState is the singleton sales counter. CurrentPrice is always the
// pricing engine's price for KeysSold.
type PricingState struct {
	KeysSold     int64
	CurrentPrice int64
}

const MaxUserIDLen = 128

// ValidateUserID rejects ids the store would accept but the shop should not:
// empty, overlong, or containing control characters.
func ValidateUserID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if len(id) > MaxUserIDLen {
		return fmt.Errorf("%w: user id longer than %d bytes", ErrInvalidInput, MaxUserIDLen)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: user id contains control characters", ErrInvalidInput)
		}
	}

	return nil
}
