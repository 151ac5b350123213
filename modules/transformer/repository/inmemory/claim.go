package inmemory

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/samber/lo"
)

func copyPendingClaim(record *entity.PendingClaimRecord) *entity.PendingClaimRecord {
	c := *record
	c.Tx = record.Tx.Clone()
	return &c
}

func (r *Repository) GetPendingClaim(ctx context.Context, txId omniverse.TxId) (*entity.PendingClaimRecord, error) {
	var result *entity.PendingClaimRecord
	r.view(func(s *state) {
		if record, ok := lo.Find(s.pending, func(p *entity.PendingClaimRecord) bool { return p.TxId == txId }); ok {
			result = copyPendingClaim(record)
		}
	})
	if result == nil {
		return nil, errors.WithStack(errs.NotFound)
	}
	return result, nil
}

func (r *Repository) GetPendingClaimsByOwner(ctx context.Context, owner common.Address, limit int32, offset int32) ([]*entity.PendingClaimRecord, error) {
	var owned []*entity.PendingClaimRecord
	r.view(func(s *state) {
		owned = lo.Filter(s.pending, func(p *entity.PendingClaimRecord, _ int) bool { return p.Owner == owner })
	})
	return lo.Map(paginate(owned, limit, offset), func(p *entity.PendingClaimRecord, _ int) *entity.PendingClaimRecord {
		return copyPendingClaim(p)
	}), nil
}

func (r *Repository) CountPendingClaimsByOwner(ctx context.Context, owner common.Address) (int64, error) {
	var count int
	r.view(func(s *state) {
		count = lo.CountBy(s.pending, func(p *entity.PendingClaimRecord) bool { return p.Owner == owner })
	})
	return int64(count), nil
}

func (r *Repository) GetPendingClaimOwners(ctx context.Context) ([]common.Address, error) {
	var owners []common.Address
	r.view(func(s *state) {
		owners = lo.Uniq(lo.Map(s.pending, func(p *entity.PendingClaimRecord, _ int) common.Address { return p.Owner }))
	})
	return owners, nil
}

func (r *Repository) GetSettledClaim(ctx context.Context, txId omniverse.TxId) (*entity.SettledClaim, error) {
	var result *entity.SettledClaim
	r.view(func(s *state) {
		if settled, ok := s.settled[txId]; ok {
			result = lo.ToPtr(*settled)
		}
	})
	if result == nil {
		return nil, errors.WithStack(errs.NotFound)
	}
	return result, nil
}

func (r *Repository) CreatePendingClaim(ctx context.Context, record *entity.PendingClaimRecord) error {
	return r.update(func(s *state) error {
		if lo.ContainsBy(s.pending, func(p *entity.PendingClaimRecord) bool { return p.TxId == record.TxId }) {
			return errors.Wrapf(errs.Conflict, "pending claim %s already exists", record.TxId)
		}
		s.pending = append(s.pending, copyPendingClaim(record))
		return nil
	})
}

func (r *Repository) SettlePendingClaim(ctx context.Context, txId omniverse.TxId, settledAt time.Time) error {
	return r.update(func(s *state) error {
		_, index, ok := lo.FindIndexOf(s.pending, func(p *entity.PendingClaimRecord) bool { return p.TxId == txId })
		if !ok {
			return errors.Wrapf(errs.NotFound, "pending claim %s not found", txId)
		}
		record := s.pending[index]
		s.pending = append(s.pending[:index:index], s.pending[index+1:]...)
		s.settled[txId] = &entity.SettledClaim{
			TxId:      txId,
			Owner:     record.Owner,
			Amount:    record.AmountOwed,
			SettledAt: settledAt,
		}
		return nil
	})
}
