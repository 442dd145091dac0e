package pricing

import (
	"database/sql"

	"github.com/fastprodman/keyshop/internal/repos/pricing"
)

var _ pricing.State = (*stateRepo)(nil)

type stateRepo struct{ db *sql.DB }

func New(db *sql.DB) *stateRepo {
	return &stateRepo{db: db}
}
