package keys

import (
	"context"
	"database/sql"

	"github.com/fastprodman/keyshop/internal/model"
)

var ErrKeyCollision = model.ErrKeyCollision

type Keys interface {
	Insert(ctx context.Context, tx *sql.Tx, userID, value string, price int64) (model.Key, error)
}
