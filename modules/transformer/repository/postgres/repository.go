package postgres

import (
	"github.com/gaze-network/omniverse-transformer/internal/postgres"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/datagateway"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/repository/postgres/gen"
	"github.com/jackc/pgx/v5"
)

var _ datagateway.TransformerDataGatewayWithTx = (*Repository)(nil)

type Repository struct {
	db      postgres.DB
	queries *gen.Queries
	tx      pgx.Tx
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{
		db:      db,
		queries: gen.New(db),
	}
}
