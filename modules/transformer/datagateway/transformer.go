package datagateway

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
)

type TransformerDataGateway interface {
	TransformerReaderDataGateway
	TransformerWriterDataGateway

	// BeginTransformerTx returns a new TransformerDataGateway with transaction enabled. All write operations performed in this datagateway must be committed to persist changes.
	BeginTransformerTx(ctx context.Context) (TransformerDataGatewayWithTx, error)
}

type TransformerDataGatewayWithTx interface {
	TransformerDataGateway
	Tx
}

type TransformerReaderDataGateway interface {
	// GetUTXOs returns the unspent outputs of owner for assetId, sorted by amount ascending then insertion order.
	GetUTXOs(ctx context.Context, owner omniverse.Address, assetId omniverse.AssetId) ([]*entity.UTXO, error)

	// GetPendingClaim returns the pending claim of txId. Returns errs.NotFound if there is none.
	GetPendingClaim(ctx context.Context, txId omniverse.TxId) (*entity.PendingClaimRecord, error)
	// GetPendingClaimsByOwner returns the pending claims of owner in insertion order.
	// Use limit <= 0 as no limit.
	GetPendingClaimsByOwner(ctx context.Context, owner common.Address, limit int32, offset int32) ([]*entity.PendingClaimRecord, error)
	CountPendingClaimsByOwner(ctx context.Context, owner common.Address) (int64, error)
	// GetPendingClaimOwners returns every owner with at least one pending claim.
	GetPendingClaimOwners(ctx context.Context) ([]common.Address, error)
	// GetSettledClaim returns the settlement of txId. Returns errs.NotFound if txId was never settled.
	GetSettledClaim(ctx context.Context, txId omniverse.TxId) (*entity.SettledClaim, error)

	// GetOutboundRecords returns the outbound records of owner in insertion order.
	// Use limit <= 0 as no limit.
	GetOutboundRecords(ctx context.Context, owner common.Address, limit int32, offset int32) ([]*entity.OutboundRecord, error)
	CountOutboundRecords(ctx context.Context, owner common.Address) (int64, error)
	// GetLatestOutboundRecord returns the outbound record with the highest TxIndex. Returns errs.NotFound if there is none.
	GetLatestOutboundRecord(ctx context.Context) (*entity.OutboundRecord, error)
}

type TransformerWriterDataGateway interface {
	// CreateUTXOs stores new unspent outputs. Returns errs.Conflict if an output already exists.
	CreateUTXOs(ctx context.Context, utxos []*entity.UTXO) error
	// DeleteUTXOs removes spent outputs. Returns errs.NotFound if an output does not exist.
	DeleteUTXOs(ctx context.Context, utxos []*entity.UTXO) error

	// CreatePendingClaim stores a new pending claim. Returns errs.Conflict if txId already has one.
	CreatePendingClaim(ctx context.Context, record *entity.PendingClaimRecord) error
	// SettlePendingClaim removes the pending claim of txId and marks txId as settled. Returns errs.NotFound if there is no pending claim.
	SettlePendingClaim(ctx context.Context, txId omniverse.TxId, settledAt time.Time) error

	CreateOutboundRecord(ctx context.Context, record *entity.OutboundRecord) error
}
