package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/datagateway"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/pkg/logger"
	"github.com/gaze-network/omniverse-transformer/pkg/logger/slogx"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
)

// ConvertToOmniverse locks the local tokens worth omniverseAmount from caller and builds an unsigned
// transfer paying recipient out of the transformer's liquidity. The caller must have approved the
// transformer's local account beforehand.
// The caller is trusted as given: requests from outside go through ConvertToOmniverseSigned.
func (u *Usecase) ConvertToOmniverse(ctx context.Context, caller common.Address, recipient omniverse.Address, omniverseAmount uint128.Uint128) (*entity.OutboundRecord, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.convertToOmniverse(ctx, caller, recipient, omniverseAmount)
}

// convertToOmniverse requires u.mu.
func (u *Usecase) convertToOmniverse(ctx context.Context, caller common.Address, recipient omniverse.Address, omniverseAmount uint128.Uint128) (*entity.OutboundRecord, error) {
	if omniverseAmount.IsZero() {
		return nil, errors.Wrap(ErrInvalidAmount, "omniverse amount must be greater than zero")
	}
	required, err := u.LocalAmount(omniverseAmount)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := u.localToken.TransferFrom(ctx, caller, u.identity.LocalAddress, required); err != nil {
		return nil, errors.WithStack(err)
	}

	record, err := u.buildOutbound(ctx, caller, recipient, omniverseAmount, required)
	if err != nil {
		// tokens already moved, give them back
		if refundErr := u.localToken.Transfer(ctx, u.identity.LocalAddress, caller, required); refundErr != nil {
			logger.ErrorContext(ctx, "Failed to refund local tokens", refundErr,
				slog.String(logger.OwnerKey, caller.Hex()),
				slog.String(logger.AmountKey, required.String()),
			)
			return nil, errors.CombineErrors(err, errors.Wrap(refundErr, "failed to refund local tokens"))
		}
		logger.AuditContext(ctx, "Refunded local tokens",
			slog.String(logger.OwnerKey, caller.Hex()),
			slog.String(logger.AmountKey, required.String()),
			slogx.Error(err),
		)
		return nil, errors.WithStack(err)
	}

	event := entity.NewEvent(entity.EventLocalToOmniverse, record.TxId, caller, omniverseAmount, required)
	event.UnsignedTx = &record.UnsignedTx
	u.publish(ctx, event)
	return record, nil
}

func (u *Usecase) buildOutbound(ctx context.Context, caller common.Address, recipient omniverse.Address, omniverseAmount, localAmount uint128.Uint128) (*entity.OutboundRecord, error) {
	dg, err := u.transformerDg.BeginTransformerTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer rollback(ctx, dg)

	txIndex, err := nextTxIndex(ctx, dg)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	inputs, change, err := u.selectInputs(ctx, dg, u.identity.AssetId, omniverseAmount)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	feeInputs, feeChange, err := u.selectInputs(ctx, dg, u.identity.FeeAssetId, u.identity.FeeAmount)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	tx := omniverse.Transfer{
		AssetId:   u.identity.AssetId,
		Inputs:    inputs,
		Outputs:   []omniverse.Output{{Address: recipient, Amount: omniverseAmount}},
		FeeInputs: feeInputs,
	}
	if !change.IsZero() {
		tx.Outputs = append(tx.Outputs, omniverse.Output{Address: u.identity.Address, Amount: change})
	}
	if !u.identity.FeeAmount.IsZero() {
		tx.FeeOutputs = append(tx.FeeOutputs, omniverse.Output{Address: u.identity.FeeRecipient, Amount: u.identity.FeeAmount})
	}
	if !feeChange.IsZero() {
		tx.FeeOutputs = append(tx.FeeOutputs, omniverse.Output{Address: u.identity.Address, Amount: feeChange})
	}

	txId, err := tx.TxId()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if utxos := u.transformerUTXOs(&tx, txId); len(utxos) > 0 {
		if err := dg.CreateUTXOs(ctx, utxos); err != nil {
			return nil, errors.Wrap(err, "failed to create change utxos")
		}
	}

	record := &entity.OutboundRecord{
		TxIndex:         txIndex,
		TxId:            txId,
		Owner:           caller,
		Recipient:       recipient,
		OmniverseAmount: omniverseAmount,
		LocalAmount:     localAmount,
		UnsignedTx:      tx,
		CreatedAt:       time.Now().UTC(),
	}
	if err := dg.CreateOutboundRecord(ctx, record); err != nil {
		return nil, errors.Wrap(err, "failed to create outbound record")
	}
	if err := dg.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}
	return record, nil
}

func nextTxIndex(ctx context.Context, dg datagateway.TransformerReaderDataGateway) (uint64, error) {
	latest, err := dg.GetLatestOutboundRecord(ctx)
	if errors.Is(err, errs.NotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "failed to get latest outbound record")
	}
	return latest.TxIndex + 1, nil
}

// GetUnsignedTx returns the latest outbound record, whose transfer is waiting to be signed and relayed.
func (u *Usecase) GetUnsignedTx(ctx context.Context) (*entity.OutboundRecord, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	record, err := u.transformerDg.GetLatestOutboundRecord(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest outbound record")
	}
	return record, nil
}
