package postgres

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/repository/postgres/gen"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
	"github.com/jackc/pgx/v5/pgtype"
)

func uint128FromNumeric(src pgtype.Numeric) (uint128.Uint128, error) {
	if !src.Valid {
		return uint128.Zero, nil
	}
	bytes, err := src.MarshalJSON()
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	result, err := uint128.FromString(string(bytes))
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	return result, nil
}

func numericFromUint128(src uint128.Uint128) (pgtype.Numeric, error) {
	var result pgtype.Numeric
	if err := result.UnmarshalJSON([]byte(src.String())); err != nil {
		return pgtype.Numeric{}, errors.WithStack(err)
	}
	return result, nil
}

func timestampFromTime(src time.Time) pgtype.Timestamp {
	return pgtype.Timestamp{Time: src.UTC(), Valid: true}
}

func timeFromTimestamp(src pgtype.Timestamp) time.Time {
	if !src.Valid {
		return time.Time{}
	}
	return src.Time.UTC()
}

func hashFromHex(src string) (common.Hash, error) {
	var result common.Hash
	if err := result.UnmarshalText([]byte(src)); err != nil {
		return common.Hash{}, errors.Wrapf(err, "invalid hash %q", src)
	}
	return result, nil
}

func localAddressFromHex(src string) (common.Address, error) {
	if !common.IsHexAddress(src) {
		return common.Address{}, errors.Errorf("invalid address %q", src)
	}
	return common.HexToAddress(src), nil
}

func limitParam(limit int32) pgtype.Int4 {
	if limit <= 0 {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: limit, Valid: true}
}

func mapUTXOModelToType(src gen.TransformerUtxo) (*entity.UTXO, error) {
	owner, err := omniverse.HexToAddress(src.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse owner")
	}
	assetId, err := hashFromHex(src.AssetID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse asset id")
	}
	txId, err := hashFromHex(src.TxID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse tx id")
	}
	amount, err := uint128FromNumeric(src.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse amount")
	}
	return &entity.UTXO{
		Owner:   owner,
		AssetId: assetId,
		TxId:    txId,
		Index:   uint32(src.OutputIndex),
		Amount:  amount,
	}, nil
}

func mapUTXOTypeToParams(src *entity.UTXO) (gen.CreateUTXOParams, error) {
	amount, err := numericFromUint128(src.Amount)
	if err != nil {
		return gen.CreateUTXOParams{}, errors.Wrap(err, "failed to convert amount")
	}
	return gen.CreateUTXOParams{
		Owner:       src.Owner.Hex(),
		AssetID:     src.AssetId.Hex(),
		TxID:        src.TxId.Hex(),
		OutputIndex: int32(src.Index),
		Amount:      amount,
	}, nil
}

func mapPendingClaimModelToType(src gen.TransformerPendingClaim) (*entity.PendingClaimRecord, error) {
	txId, err := hashFromHex(src.TxID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse tx id")
	}
	owner, err := localAddressFromHex(src.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse owner")
	}
	sender, err := omniverse.HexToAddress(src.OmniverseSender)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse omniverse sender")
	}
	amountOwed, err := uint128FromNumeric(src.AmountOwed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse amount owed")
	}
	omniverseAmount, err := uint128FromNumeric(src.OmniverseAmount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse omniverse amount")
	}
	tx, err := omniverse.Decode(src.Tx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode transfer")
	}
	return &entity.PendingClaimRecord{
		TxId:            txId,
		Owner:           owner,
		OmniverseSender: sender,
		AmountOwed:      amountOwed,
		OmniverseAmount: omniverseAmount,
		Tx:              tx,
		CreatedAt:       timeFromTimestamp(src.CreatedAt),
	}, nil
}

func mapPendingClaimTypeToParams(src *entity.PendingClaimRecord) (gen.CreatePendingClaimParams, error) {
	amountOwed, err := numericFromUint128(src.AmountOwed)
	if err != nil {
		return gen.CreatePendingClaimParams{}, errors.Wrap(err, "failed to convert amount owed")
	}
	omniverseAmount, err := numericFromUint128(src.OmniverseAmount)
	if err != nil {
		return gen.CreatePendingClaimParams{}, errors.Wrap(err, "failed to convert omniverse amount")
	}
	tx, err := omniverse.Encode(src.Tx)
	if err != nil {
		return gen.CreatePendingClaimParams{}, errors.Wrap(err, "failed to encode transfer")
	}
	return gen.CreatePendingClaimParams{
		TxID:            src.TxId.Hex(),
		Owner:           src.Owner.Hex(),
		OmniverseSender: src.OmniverseSender.Hex(),
		AmountOwed:      amountOwed,
		OmniverseAmount: omniverseAmount,
		Tx:              tx,
		CreatedAt:       timestampFromTime(src.CreatedAt),
	}, nil
}

func mapSettledClaimModelToType(src gen.TransformerSettledClaim) (*entity.SettledClaim, error) {
	txId, err := hashFromHex(src.TxID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse tx id")
	}
	owner, err := localAddressFromHex(src.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse owner")
	}
	amount, err := uint128FromNumeric(src.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse amount")
	}
	return &entity.SettledClaim{
		TxId:      txId,
		Owner:     owner,
		Amount:    amount,
		SettledAt: timeFromTimestamp(src.SettledAt),
	}, nil
}

func mapOutboundRecordModelToType(src gen.TransformerOutboundRecord) (*entity.OutboundRecord, error) {
	txId, err := hashFromHex(src.TxID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse tx id")
	}
	owner, err := localAddressFromHex(src.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse owner")
	}
	recipient, err := omniverse.HexToAddress(src.Recipient)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse recipient")
	}
	omniverseAmount, err := uint128FromNumeric(src.OmniverseAmount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse omniverse amount")
	}
	localAmount, err := uint128FromNumeric(src.LocalAmount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse local amount")
	}
	unsignedTx, err := omniverse.Decode(src.UnsignedTx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode unsigned transfer")
	}
	return &entity.OutboundRecord{
		TxIndex:         uint64(src.TxIndex),
		TxId:            txId,
		Owner:           owner,
		Recipient:       recipient,
		OmniverseAmount: omniverseAmount,
		LocalAmount:     localAmount,
		UnsignedTx:      unsignedTx,
		CreatedAt:       timeFromTimestamp(src.CreatedAt),
	}, nil
}

func mapOutboundRecordTypeToParams(src *entity.OutboundRecord) (gen.CreateOutboundRecordParams, error) {
	omniverseAmount, err := numericFromUint128(src.OmniverseAmount)
	if err != nil {
		return gen.CreateOutboundRecordParams{}, errors.Wrap(err, "failed to convert omniverse amount")
	}
	localAmount, err := numericFromUint128(src.LocalAmount)
	if err != nil {
		return gen.CreateOutboundRecordParams{}, errors.Wrap(err, "failed to convert local amount")
	}
	unsignedTx, err := omniverse.Encode(src.UnsignedTx)
	if err != nil {
		return gen.CreateOutboundRecordParams{}, errors.Wrap(err, "failed to encode unsigned transfer")
	}
	return gen.CreateOutboundRecordParams{
		TxIndex:         int64(src.TxIndex),
		TxID:            src.TxId.Hex(),
		Owner:           src.Owner.Hex(),
		Recipient:       src.Recipient.Hex(),
		OmniverseAmount: omniverseAmount,
		LocalAmount:     localAmount,
		UnsignedTx:      unsignedTx,
		CreatedAt:       timestampFromTime(src.CreatedAt),
	}, nil
}
