package entity

import (
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
)

// UTXO is an unspent Omniverse output held by the transformer.
type UTXO struct {
	Owner   omniverse.Address
	AssetId omniverse.AssetId
	TxId    omniverse.TxId
	Index   uint32
	Amount  uint128.Uint128
}

// Input returns the transaction input spending u.
func (u UTXO) Input() omniverse.Input {
	return omniverse.Input{
		TxId:    u.TxId,
		Index:   u.Index,
		Amount:  u.Amount,
		Address: u.Owner,
	}
}
