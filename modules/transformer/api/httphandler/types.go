package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
	"github.com/samber/lo"
)

// Amounts are decimal strings so that 128-bit values survive JSON clients.

type input struct {
	TxId    omniverse.TxId    `json:"txid"`
	Index   uint32            `json:"index"`
	Amount  string            `json:"amount"`
	Address omniverse.Address `json:"omniAddress"`
}

type output struct {
	Address omniverse.Address `json:"omniAddress"`
	Amount  string            `json:"amount"`
}

type transfer struct {
	AssetId    omniverse.AssetId `json:"assetId"`
	Signature  hexutil.Bytes     `json:"signature"`
	Inputs     []input           `json:"inputs"`
	Outputs    []output          `json:"outputs"`
	FeeInputs  []input           `json:"feeInputs"`
	FeeOutputs []output          `json:"feeOutputs"`
}

func parseAmount(s string) (uint128.Uint128, error) {
	amount, err := uint128.FromString(s)
	if err != nil {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "%q is not a valid amount", s)
	}
	return amount, nil
}

func toInputs(inputs []input) ([]omniverse.Input, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	result := make([]omniverse.Input, 0, len(inputs))
	for _, in := range inputs {
		amount, err := parseAmount(in.Amount)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		result = append(result, omniverse.Input{TxId: in.TxId, Index: in.Index, Amount: amount, Address: in.Address})
	}
	return result, nil
}

func toOutputs(outputs []output) ([]omniverse.Output, error) {
	if len(outputs) == 0 {
		return nil, nil
	}
	result := make([]omniverse.Output, 0, len(outputs))
	for _, out := range outputs {
		amount, err := parseAmount(out.Amount)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		result = append(result, omniverse.Output{Address: out.Address, Amount: amount})
	}
	return result, nil
}

func (t transfer) toTransfer() (omniverse.Transfer, error) {
	var (
		tx  = omniverse.Transfer{AssetId: t.AssetId}
		err error
	)
	if len(t.Signature) > 0 {
		tx.Signature = t.Signature
	}
	if tx.Inputs, err = toInputs(t.Inputs); err != nil {
		return omniverse.Transfer{}, errors.Wrap(err, "inputs")
	}
	if tx.Outputs, err = toOutputs(t.Outputs); err != nil {
		return omniverse.Transfer{}, errors.Wrap(err, "outputs")
	}
	if tx.FeeInputs, err = toInputs(t.FeeInputs); err != nil {
		return omniverse.Transfer{}, errors.Wrap(err, "feeInputs")
	}
	if tx.FeeOutputs, err = toOutputs(t.FeeOutputs); err != nil {
		return omniverse.Transfer{}, errors.Wrap(err, "feeOutputs")
	}
	return tx, nil
}

func mapInputs(inputs []omniverse.Input) []input {
	return lo.Map(inputs, func(in omniverse.Input, _ int) input {
		return input{TxId: in.TxId, Index: in.Index, Amount: in.Amount.String(), Address: in.Address}
	})
}

func mapOutputs(outputs []omniverse.Output) []output {
	return lo.Map(outputs, func(out omniverse.Output, _ int) output {
		return output{Address: out.Address, Amount: out.Amount.String()}
	})
}

func mapTransfer(tx omniverse.Transfer) transfer {
	return transfer{
		AssetId:    tx.AssetId,
		Signature:  tx.Signature,
		Inputs:     mapInputs(tx.Inputs),
		Outputs:    mapOutputs(tx.Outputs),
		FeeInputs:  mapInputs(tx.FeeInputs),
		FeeOutputs: mapOutputs(tx.FeeOutputs),
	}
}

type outboundRecord struct {
	TxIndex         uint64            `json:"txIndex"`
	TxId            omniverse.TxId    `json:"txId"`
	Owner           common.Address    `json:"owner"`
	Recipient       omniverse.Address `json:"recipient"`
	OmniverseAmount string            `json:"omniverseAmount"`
	LocalAmount     string            `json:"localAmount"`
	UnsignedTx      transfer          `json:"unsignedTx"`
	RawUnsignedTx   hexutil.Bytes     `json:"rawUnsignedTx"`
	CreatedAt       time.Time         `json:"createdAt"`
}

func mapOutboundRecord(record *entity.OutboundRecord) (outboundRecord, error) {
	raw, err := omniverse.Encode(record.UnsignedTx)
	if err != nil {
		return outboundRecord{}, errors.WithStack(err)
	}
	return outboundRecord{
		TxIndex:         record.TxIndex,
		TxId:            record.TxId,
		Owner:           record.Owner,
		Recipient:       record.Recipient,
		OmniverseAmount: record.OmniverseAmount.String(),
		LocalAmount:     record.LocalAmount.String(),
		UnsignedTx:      mapTransfer(record.UnsignedTx),
		RawUnsignedTx:   raw,
		CreatedAt:       record.CreatedAt,
	}, nil
}

type inboundRecord struct {
	TxId            omniverse.TxId    `json:"txId"`
	Owner           common.Address    `json:"owner"`
	OmniverseSender omniverse.Address `json:"omniverseSender"`
	OmniverseAmount string            `json:"omniverseAmount"`
	AmountOwed      string            `json:"amountOwed"`
	Tx              transfer          `json:"tx"`
	CreatedAt       time.Time         `json:"createdAt"`
}

func mapInboundRecord(record *entity.PendingClaimRecord) inboundRecord {
	return inboundRecord{
		TxId:            record.TxId,
		Owner:           record.Owner,
		OmniverseSender: record.OmniverseSender,
		OmniverseAmount: record.OmniverseAmount.String(),
		AmountOwed:      record.AmountOwed.String(),
		Tx:              mapTransfer(record.Tx),
		CreatedAt:       record.CreatedAt,
	}
}

type settledClaim struct {
	TxId      omniverse.TxId `json:"txId"`
	Owner     common.Address `json:"owner"`
	Amount    string         `json:"amount"`
	SettledAt time.Time      `json:"settledAt"`
}

func mapSettledClaim(claim *entity.SettledClaim) settledClaim {
	return settledClaim{
		TxId:      claim.TxId,
		Owner:     claim.Owner,
		Amount:    claim.Amount.String(),
		SettledAt: claim.SettledAt,
	}
}

type utxo struct {
	AssetId omniverse.AssetId `json:"assetId"`
	TxId    omniverse.TxId    `json:"txid"`
	Index   uint32            `json:"index"`
	Amount  string            `json:"amount"`
	Owner   omniverse.Address `json:"omniAddress"`
}

func mapUTXO(u *entity.UTXO) utxo {
	return utxo{
		AssetId: u.AssetId,
		TxId:    u.TxId,
		Index:   u.Index,
		Amount:  u.Amount.String(),
		Owner:   u.Owner,
	}
}

func parseOwner(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errs.NewPublicError("'owner' is not a valid address")
	}
	return common.HexToAddress(s), nil
}
