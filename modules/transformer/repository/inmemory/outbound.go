package inmemory

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/samber/lo"
)

func copyOutboundRecord(record *entity.OutboundRecord) *entity.OutboundRecord {
	c := *record
	c.UnsignedTx = record.UnsignedTx.Clone()
	return &c
}

func (r *Repository) GetOutboundRecords(ctx context.Context, owner common.Address, limit int32, offset int32) ([]*entity.OutboundRecord, error) {
	var owned []*entity.OutboundRecord
	r.view(func(s *state) {
		owned = lo.Filter(s.outbound, func(o *entity.OutboundRecord, _ int) bool { return o.Owner == owner })
	})
	return lo.Map(paginate(owned, limit, offset), func(o *entity.OutboundRecord, _ int) *entity.OutboundRecord {
		return copyOutboundRecord(o)
	}), nil
}

func (r *Repository) CountOutboundRecords(ctx context.Context, owner common.Address) (int64, error) {
	var count int
	r.view(func(s *state) {
		count = lo.CountBy(s.outbound, func(o *entity.OutboundRecord) bool { return o.Owner == owner })
	})
	return int64(count), nil
}

func (r *Repository) GetLatestOutboundRecord(ctx context.Context) (*entity.OutboundRecord, error) {
	var result *entity.OutboundRecord
	r.view(func(s *state) {
		if len(s.outbound) > 0 {
			result = copyOutboundRecord(s.outbound[len(s.outbound)-1])
		}
	})
	if result == nil {
		return nil, errors.WithStack(errs.NotFound)
	}
	return result, nil
}

func (r *Repository) CreateOutboundRecord(ctx context.Context, record *entity.OutboundRecord) error {
	return r.update(func(s *state) error {
		if n := len(s.outbound); n > 0 && s.outbound[n-1].TxIndex >= record.TxIndex {
			return errors.Wrapf(errs.Conflict, "tx index %d is not after %d", record.TxIndex, s.outbound[n-1].TxIndex)
		}
		s.outbound = append(s.outbound, copyOutboundRecord(record))
		return nil
	})
}
