package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
)

// GetOutboundRecords returns at most limit outbound records of owner, oldest first, after skipping offset.
// limit <= 0 returns every remaining record. Out of range values are clamped.
func (u *Usecase) GetOutboundRecords(ctx context.Context, owner common.Address, limit int32, offset int32) ([]*entity.OutboundRecord, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	records, err := u.transformerDg.GetOutboundRecords(ctx, owner, limit, max(offset, 0))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get outbound records")
	}
	return records, nil
}

func (u *Usecase) CountOutboundRecords(ctx context.Context, owner common.Address) (int64, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	count, err := u.transformerDg.CountOutboundRecords(ctx, owner)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count outbound records")
	}
	return count, nil
}

// GetInboundRecords returns the pending claims of owner with the same windowing as GetOutboundRecords.
func (u *Usecase) GetInboundRecords(ctx context.Context, owner common.Address, limit int32, offset int32) ([]*entity.PendingClaimRecord, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	records, err := u.transformerDg.GetPendingClaimsByOwner(ctx, owner, limit, max(offset, 0))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pending claims")
	}
	return records, nil
}

func (u *Usecase) CountInboundRecords(ctx context.Context, owner common.Address) (int64, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	count, err := u.transformerDg.CountPendingClaimsByOwner(ctx, owner)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count pending claims")
	}
	return count, nil
}

// GetInboundRecord returns the pending claim of txId.
func (u *Usecase) GetInboundRecord(ctx context.Context, txId omniverse.TxId) (*entity.PendingClaimRecord, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	record, err := u.transformerDg.GetPendingClaim(ctx, txId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(&RecordNotFoundError{TxId: txId})
		}
		return nil, errors.Wrap(err, "failed to get pending claim")
	}
	return record, nil
}
