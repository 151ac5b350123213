package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/repository/postgres/gen"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/lo"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *Repository) GetUTXOs(ctx context.Context, owner omniverse.Address, assetId omniverse.AssetId) ([]*entity.UTXO, error) {
	models, err := r.queries.GetUTXOs(ctx, gen.GetUTXOsParams{
		Owner:   owner.Hex(),
		AssetID: assetId.Hex(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	utxos := make([]*entity.UTXO, 0, len(models))
	for _, model := range models {
		utxo, err := mapUTXOModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse utxo model")
		}
		utxos = append(utxos, utxo)
	}
	return utxos, nil
}

func (r *Repository) CreateUTXOs(ctx context.Context, utxos []*entity.UTXO) error {
	for _, utxo := range utxos {
		params, err := mapUTXOTypeToParams(utxo)
		if err != nil {
			return errors.Wrap(err, "failed to map utxo to params")
		}
		if err := r.queries.CreateUTXO(ctx, params); err != nil {
			if isUniqueViolation(err) {
				return errors.Wrapf(errs.Conflict, "utxo %s:%d already exists", utxo.TxId, utxo.Index)
			}
			return errors.Wrap(err, "error during exec")
		}
	}
	return nil
}

func (r *Repository) DeleteUTXOs(ctx context.Context, utxos []*entity.UTXO) error {
	for _, utxo := range utxos {
		affected, err := r.queries.DeleteUTXO(ctx, gen.DeleteUTXOParams{
			TxID:        utxo.TxId.Hex(),
			OutputIndex: int32(utxo.Index),
		})
		if err != nil {
			return errors.Wrap(err, "error during exec")
		}
		if affected == 0 {
			return errors.Wrapf(errs.NotFound, "utxo %s:%d not found", utxo.TxId, utxo.Index)
		}
	}
	return nil
}

func (r *Repository) GetPendingClaim(ctx context.Context, txId omniverse.TxId) (*entity.PendingClaimRecord, error) {
	model, err := r.queries.GetPendingClaim(ctx, txId.Hex())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	record, err := mapPendingClaimModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse pending claim model")
	}
	return record, nil
}

func (r *Repository) GetPendingClaimsByOwner(ctx context.Context, owner common.Address, limit int32, offset int32) ([]*entity.PendingClaimRecord, error) {
	models, err := r.queries.GetPendingClaimsByOwner(ctx, gen.GetPendingClaimsByOwnerParams{
		Owner:  owner.Hex(),
		Limit:  limitParam(limit),
		Offset: max(offset, 0),
	})
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	records := make([]*entity.PendingClaimRecord, 0, len(models))
	for _, model := range models {
		record, err := mapPendingClaimModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse pending claim model")
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *Repository) CountPendingClaimsByOwner(ctx context.Context, owner common.Address) (int64, error) {
	count, err := r.queries.CountPendingClaimsByOwner(ctx, owner.Hex())
	if err != nil {
		return 0, errors.Wrap(err, "error during query")
	}
	return count, nil
}

func (r *Repository) GetPendingClaimOwners(ctx context.Context) ([]common.Address, error) {
	owners, err := r.queries.GetPendingClaimOwners(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return lo.Map(owners, func(owner string, _ int) common.Address {
		return common.HexToAddress(owner)
	}), nil
}

func (r *Repository) GetSettledClaim(ctx context.Context, txId omniverse.TxId) (*entity.SettledClaim, error) {
	model, err := r.queries.GetSettledClaim(ctx, txId.Hex())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	settled, err := mapSettledClaimModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse settled claim model")
	}
	return settled, nil
}

func (r *Repository) CreatePendingClaim(ctx context.Context, record *entity.PendingClaimRecord) error {
	params, err := mapPendingClaimTypeToParams(record)
	if err != nil {
		return errors.Wrap(err, "failed to map pending claim to params")
	}
	if err := r.queries.CreatePendingClaim(ctx, params); err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(errs.Conflict, "pending claim %s already exists", record.TxId)
		}
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) SettlePendingClaim(ctx context.Context, txId omniverse.TxId, settledAt time.Time) error {
	deleted, err := r.queries.DeletePendingClaim(ctx, txId.Hex())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.Wrapf(errs.NotFound, "pending claim %s not found", txId)
		}
		return errors.Wrap(err, "error during exec")
	}
	err = r.queries.CreateSettledClaim(ctx, gen.CreateSettledClaimParams{
		TxID:      deleted.TxID,
		Owner:     deleted.Owner,
		Amount:    deleted.AmountOwed,
		SettledAt: timestampFromTime(settledAt),
	})
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) GetOutboundRecords(ctx context.Context, owner common.Address, limit int32, offset int32) ([]*entity.OutboundRecord, error) {
	models, err := r.queries.GetOutboundRecords(ctx, gen.GetOutboundRecordsParams{
		Owner:  owner.Hex(),
		Limit:  limitParam(limit),
		Offset: max(offset, 0),
	})
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	records := make([]*entity.OutboundRecord, 0, len(models))
	for _, model := range models {
		record, err := mapOutboundRecordModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse outbound record model")
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *Repository) CountOutboundRecords(ctx context.Context, owner common.Address) (int64, error) {
	count, err := r.queries.CountOutboundRecords(ctx, owner.Hex())
	if err != nil {
		return 0, errors.Wrap(err, "error during query")
	}
	return count, nil
}

func (r *Repository) GetLatestOutboundRecord(ctx context.Context) (*entity.OutboundRecord, error) {
	model, err := r.queries.GetLatestOutboundRecord(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	record, err := mapOutboundRecordModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse outbound record model")
	}
	return record, nil
}

func (r *Repository) CreateOutboundRecord(ctx context.Context, record *entity.OutboundRecord) error {
	params, err := mapOutboundRecordTypeToParams(record)
	if err != nil {
		return errors.Wrap(err, "failed to map outbound record to params")
	}
	if err := r.queries.CreateOutboundRecord(ctx, params); err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(errs.Conflict, "tx index %d already exists", record.TxIndex)
		}
		return errors.Wrap(err, "error during exec")
	}
	return nil
}
