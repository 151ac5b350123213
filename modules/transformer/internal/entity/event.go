package entity

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
	"github.com/google/uuid"
)

type EventType string

const (
	EventLocalToOmniverse  EventType = "local_to_omniverse"
	EventOmniverseToLocal  EventType = "omniverse_to_local"
	EventLocalTokenClaimed EventType = "local_token_claimed"
)

// Event is published after a conversion or claim has been committed.
type Event struct {
	Id              uuid.UUID
	Type            EventType
	TxId            omniverse.TxId
	Owner           common.Address
	OmniverseAmount uint128.Uint128
	LocalAmount     uint128.Uint128
	UnsignedTx      *omniverse.Transfer
	CreatedAt       time.Time
}

func NewEvent(eventType EventType, txId omniverse.TxId, owner common.Address, omniverseAmount, localAmount uint128.Uint128) Event {
	return Event{
		Id:              uuid.New(),
		Type:            eventType,
		TxId:            txId,
		Owner:           owner,
		OmniverseAmount: omniverseAmount,
		LocalAmount:     localAmount,
		CreatedAt:       time.Now().UTC(),
	}
}
