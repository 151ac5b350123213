package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/datagateway"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
)

// ConvertToLocal accepts a signed, included Omniverse transfer paying the transformer and records
// a pending claim of the equivalent local tokens for the owner of publicKey.
//
// Checks run in a fixed order: sender, asset, signature, inclusion, destination, duplicate.
func (u *Usecase) ConvertToLocal(ctx context.Context, tx omniverse.Transfer, publicKey []byte) (*entity.PendingClaimRecord, error) {
	tx = tx.Clone()

	u.mu.Lock()
	defer u.mu.Unlock()

	sender, err := u.matchSender(&tx, publicKey)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if tx.AssetId != u.identity.AssetId {
		return nil, errors.WithStack(&NotSupportedAssetError{AssetId: tx.AssetId})
	}
	if err := u.verifySignature(&tx, sender.omniverse); err != nil {
		return nil, errors.WithStack(err)
	}

	txId, err := tx.TxId()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	included, err := u.stateKeeper.IsIncluded(ctx, tx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query state keeper")
	}
	if !included {
		return nil, errors.WithStack(&NotIncludedError{TxId: txId})
	}

	received, err := tx.AmountTo(u.identity.Address)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if received.IsZero() {
		return nil, errors.WithStack(ErrNoOmniverseTokenReceived)
	}
	amountOwed, err := u.LocalAmount(received)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	dg, err := u.transformerDg.BeginTransformerTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer rollback(ctx, dg)

	if err := checkDuplicate(ctx, dg, txId); err != nil {
		return nil, errors.WithStack(err)
	}

	record := &entity.PendingClaimRecord{
		TxId:            txId,
		Owner:           sender.local,
		OmniverseSender: sender.omniverse,
		AmountOwed:      amountOwed,
		OmniverseAmount: received,
		Tx:              tx,
		CreatedAt:       time.Now().UTC(),
	}
	if err := dg.CreatePendingClaim(ctx, record); err != nil {
		return nil, errors.Wrap(err, "failed to create pending claim")
	}
	if err := dg.CreateUTXOs(ctx, u.transformerUTXOs(&tx, txId)); err != nil {
		return nil, errors.Wrap(err, "failed to create received utxos")
	}
	if err := dg.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	u.publish(ctx, entity.NewEvent(entity.EventOmniverseToLocal, txId, record.Owner, received, amountOwed))
	return record, nil
}

// checkDuplicate fails if txId already has a pending or settled claim.
func checkDuplicate(ctx context.Context, dg datagateway.TransformerReaderDataGateway, txId omniverse.TxId) error {
	if _, err := dg.GetPendingClaim(ctx, txId); err == nil {
		return errors.WithStack(&TransactionDuplicatedError{TxId: txId})
	} else if !errors.Is(err, errs.NotFound) {
		return errors.Wrap(err, "failed to get pending claim")
	}
	if _, err := dg.GetSettledClaim(ctx, txId); err == nil {
		return errors.WithStack(&TransactionDuplicatedError{TxId: txId})
	} else if !errors.Is(err, errs.NotFound) {
		return errors.Wrap(err, "failed to get settled claim")
	}
	return nil
}
