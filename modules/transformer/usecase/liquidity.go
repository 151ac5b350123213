package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/datagateway"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
)

// selectInputs spends the transformer's UTXOs of assetId, smallest first, until they cover amount.
// It returns the spent outputs as inputs and the change owed back to the transformer.
func (u *Usecase) selectInputs(ctx context.Context, dg datagateway.TransformerDataGateway, assetId omniverse.AssetId, amount uint128.Uint128) ([]omniverse.Input, uint128.Uint128, error) {
	if amount.IsZero() {
		return nil, uint128.Zero, nil
	}
	utxos, err := dg.GetUTXOs(ctx, u.identity.Address, assetId)
	if err != nil {
		return nil, uint128.Zero, errors.Wrap(err, "failed to get utxos")
	}

	var (
		selected  []*entity.UTXO
		remaining = amount
		change    = uint128.Zero
	)
	for _, utxo := range utxos {
		selected = append(selected, utxo)
		if utxo.Amount.Cmp(remaining) >= 0 {
			change = utxo.Amount.Sub(remaining)
			remaining = uint128.Zero
			break
		}
		remaining = remaining.Sub(utxo.Amount)
	}
	if !remaining.IsZero() {
		return nil, uint128.Zero, errors.WithStack(&InsufficientLiquidityError{
			AssetId:   assetId,
			Required:  amount,
			Available: amount.Sub(remaining),
		})
	}

	if err := dg.DeleteUTXOs(ctx, selected); err != nil {
		return nil, uint128.Zero, errors.Wrap(err, "failed to spend utxos")
	}
	inputs := make([]omniverse.Input, 0, len(selected))
	for _, utxo := range selected {
		inputs = append(inputs, utxo.Input())
	}
	return inputs, change, nil
}

// transformerUTXOs returns the outputs of tx paying the transformer. Regular outputs are in the
// transfer's asset, fee outputs in the fee asset.
func (u *Usecase) transformerUTXOs(tx *omniverse.Transfer, txId omniverse.TxId) []*entity.UTXO {
	var utxos []*entity.UTXO
	collect := func(outputs []omniverse.Output, assetId omniverse.AssetId, fee bool) {
		for i, out := range outputs {
			if out.Address != u.identity.Address || out.Amount.IsZero() {
				continue
			}
			utxos = append(utxos, &entity.UTXO{
				Owner:   u.identity.Address,
				AssetId: assetId,
				TxId:    txId,
				Index:   tx.OutputIndex(i, fee),
				Amount:  out.Amount,
			})
		}
	}
	collect(tx.Outputs, tx.AssetId, false)
	collect(tx.FeeOutputs, u.identity.FeeAssetId, true)
	return utxos
}

// AddUTXOs deposits liquidity owned by the transformer. A zero owner defaults to the transformer.
func (u *Usecase) AddUTXOs(ctx context.Context, utxos []*entity.UTXO) error {
	for _, utxo := range utxos {
		if utxo.Owner.IsZero() {
			utxo.Owner = u.identity.Address
		}
		if utxo.Owner != u.identity.Address {
			return errors.Wrapf(errs.InvalidArgument, "utxo owner %s is not the transformer %s", utxo.Owner, u.identity.Address)
		}
		if utxo.Amount.IsZero() {
			return errors.Wrapf(ErrInvalidAmount, "utxo %s:%d has zero amount", utxo.TxId, utxo.Index)
		}
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	dg, err := u.transformerDg.BeginTransformerTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer rollback(ctx, dg)

	if err := dg.CreateUTXOs(ctx, utxos); err != nil {
		return errors.Wrap(err, "failed to create utxos")
	}
	if err := dg.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// GetUTXOs lists the transformer's liquidity of assetId in selection order.
func (u *Usecase) GetUTXOs(ctx context.Context, assetId omniverse.AssetId) ([]*entity.UTXO, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	utxos, err := u.transformerDg.GetUTXOs(ctx, u.identity.Address, assetId)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get utxos")
	}
	return utxos, nil
}

// Liquidity sums the transformer's UTXOs of assetId.
func (u *Usecase) Liquidity(ctx context.Context, assetId omniverse.AssetId) (uint128.Uint128, error) {
	utxos, err := u.GetUTXOs(ctx, assetId)
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	total := uint128.Zero
	for _, utxo := range utxos {
		sum, overflow := total.AddOverflow(utxo.Amount)
		if overflow {
			return uint128.Zero, errors.Wrap(errs.OverflowUint128, "liquidity")
		}
		total = sum
	}
	return total, nil
}
