package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/datagateway"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/pkg/logger"
	"github.com/gaze-network/omniverse-transformer/pkg/logger/slogx"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
)

type ClaimAllResult struct {
	Claimed []*entity.SettledClaim
	// Skipped are kept pending because the transformer could not pay them yet.
	Skipped []omniverse.TxId
}

// Claim pays out the pending claim of txId. On ErrNotEnoughLocalToken the claim is kept for a later retry.
func (u *Usecase) Claim(ctx context.Context, txId omniverse.TxId) (*entity.SettledClaim, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	record, err := u.transformerDg.GetPendingClaim(ctx, txId)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(&RecordNotFoundError{TxId: txId})
		}
		return nil, errors.Wrap(err, "failed to get pending claim")
	}
	settled, err := u.settle(ctx, record)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return settled, nil
}

// ClaimAll pays out every pending claim of owner in insertion order. Claims the transformer cannot
// pay yet are skipped and kept. Any other failure stops the batch; claims settled before it stay settled.
func (u *Usecase) ClaimAll(ctx context.Context, owner common.Address) (*ClaimAllResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	records, err := u.transformerDg.GetPendingClaimsByOwner(ctx, owner, 0, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pending claims")
	}

	result := &ClaimAllResult{}
	for _, record := range records {
		settled, err := u.settle(ctx, record)
		if errors.Is(err, ErrNotEnoughLocalToken) {
			logger.DebugContext(ctx, "Skipped pending claim", slogx.Stringer(logger.TxIdKey, record.TxId), slogx.Error(err))
			result.Skipped = append(result.Skipped, record.TxId)
			continue
		}
		if err != nil {
			return result, errors.Wrapf(err, "failed to claim %s", record.TxId)
		}
		result.Claimed = append(result.Claimed, settled)
	}
	return result, nil
}

// PendingClaimOwners lists every owner with at least one pending claim.
func (u *Usecase) PendingClaimOwners(ctx context.Context) ([]common.Address, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	owners, err := u.transformerDg.GetPendingClaimOwners(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pending claim owners")
	}
	return owners, nil
}

// settle pays one claim in its own transaction, since the local token transfer can't be rolled back. Requires u.mu.
func (u *Usecase) settle(ctx context.Context, record *entity.PendingClaimRecord) (*entity.SettledClaim, error) {
	balance, err := u.localToken.BalanceOf(ctx, u.identity.LocalAddress)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transformer balance")
	}
	if balance.Cmp(record.AmountOwed) < 0 {
		return nil, errors.WithStack(&NotEnoughLocalTokenError{
			Required:  record.AmountOwed,
			Available: balance,
		})
	}

	dg, err := u.transformerDg.BeginTransformerTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer rollback(ctx, dg)

	settledAt := time.Now().UTC()
	if err := dg.SettlePendingClaim(ctx, record.TxId, settledAt); err != nil {
		return nil, errors.Wrap(err, "failed to settle pending claim")
	}
	// paid under the claim's tx id, a retry after a failed commit does not pay again
	if err := u.localToken.Pay(ctx, record.TxId, u.identity.LocalAddress, record.Owner, record.AmountOwed); err != nil {
		return nil, errors.Wrap(err, "failed to transfer local tokens")
	}
	if err := commitSettlement(ctx, dg, record); err != nil {
		return nil, errors.WithStack(err)
	}

	u.publish(ctx, entity.NewEvent(entity.EventLocalTokenClaimed, record.TxId, record.Owner, record.OmniverseAmount, record.AmountOwed))
	return &entity.SettledClaim{
		TxId:      record.TxId,
		Owner:     record.Owner,
		Amount:    record.AmountOwed,
		SettledAt: settledAt,
	}, nil
}

func commitSettlement(ctx context.Context, dg datagateway.Tx, record *entity.PendingClaimRecord) error {
	if err := dg.Commit(ctx); err != nil {
		// the owner has been paid but the claim is still pending, the next claim completes it without paying
		logger.ErrorContext(ctx, "Failed to commit paid claim", err,
			slogx.Stringer(logger.TxIdKey, record.TxId),
			slogx.String(logger.OwnerKey, record.Owner.Hex()),
			slogx.String(logger.AmountKey, record.AmountOwed.String()),
		)
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}
