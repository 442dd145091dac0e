package views

import (
	"context"

	"github.com/fastprodman/keyshop/internal/model"
)

var ErrUserNotFound = model.ErrUserNotFound

// Views serves read models. None of its methods create rows.
type Views interface {
	Profile(ctx context.Context, userID string) (model.Profile, error)
	KeyHistory(ctx context.Context, userID string, limit int) ([]model.KeyRecord, error)
	Stats(ctx context.Context) (model.Stats, error)
	Ping(ctx context.Context) error
}
