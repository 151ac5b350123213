package entity

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
)

// PendingClaimRecord is an accepted inbound transfer not yet paid out in local tokens.
type PendingClaimRecord struct {
	TxId            omniverse.TxId
	Owner           common.Address
	OmniverseSender omniverse.Address
	AmountOwed      uint128.Uint128
	OmniverseAmount uint128.Uint128
	Tx              omniverse.Transfer
	CreatedAt       time.Time
}

// SettledClaim marks an inbound transfer that has been paid out.
type SettledClaim struct {
	TxId      omniverse.TxId
	Owner     common.Address
	Amount    uint128.Uint128
	SettledAt time.Time
}

// OutboundRecord is a local to Omniverse conversion. TxIndex is unique and sequential across all owners.
type OutboundRecord struct {
	TxIndex         uint64
	TxId            omniverse.TxId
	Owner           common.Address
	Recipient       omniverse.Address
	OmniverseAmount uint128.Uint128
	LocalAmount     uint128.Uint128
	UnsignedTx      omniverse.Transfer
	CreatedAt       time.Time
}
