// Package usecase implements the transformer: outbound and inbound conversions, claim settlement
// and the record queries. Mutating operations are serialized and run in one datagateway transaction.
package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/config"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/datagateway"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/localtoken"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/relay"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/statekeeper"
	"github.com/gaze-network/omniverse-transformer/pkg/logger"
	"github.com/gaze-network/omniverse-transformer/pkg/logger/slogx"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
	lru "github.com/hashicorp/golang-lru/v2"
)

const addressCacheSize = 1024

type Usecase struct {
	mu sync.RWMutex

	identity      config.Identity
	transformerDg datagateway.TransformerDataGateway
	localToken    localtoken.Ledger
	stateKeeper   statekeeper.Oracle
	notifier      relay.Notifier

	addressCache *lru.Cache[string, derivedAddress]
}

func New(identity config.Identity, transformerDg datagateway.TransformerDataGateway, localToken localtoken.Ledger, stateKeeper statekeeper.Oracle, notifier relay.Notifier) (*Usecase, error) {
	addressCache, err := lru.New[string, derivedAddress](addressCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "can't create address cache")
	}
	if notifier == nil {
		notifier = relay.LogNotifier{}
	}
	return &Usecase{
		identity:      identity,
		transformerDg: transformerDg,
		localToken:    localToken,
		stateKeeper:   stateKeeper,
		notifier:      notifier,
		addressCache:  addressCache,
	}, nil
}

func (u *Usecase) AssetId() omniverse.AssetId { return u.identity.AssetId }

func (u *Usecase) FeeAssetId() omniverse.AssetId { return u.identity.FeeAssetId }

func (u *Usecase) FeeAmount() uint128.Uint128 { return u.identity.FeeAmount }

func (u *Usecase) PriceRate() uint128.Uint128 { return u.identity.PriceRate }

// TransformerAddress is the Omniverse address holding the transformer's liquidity.
func (u *Usecase) TransformerAddress() omniverse.Address { return u.identity.Address }

// LocalAddress is the transformer's account on the local token ledger.
func (u *Usecase) LocalAddress() common.Address { return u.identity.LocalAddress }

func (u *Usecase) LocalToken() localtoken.Ledger { return u.localToken }

func (u *Usecase) Domain() omniverse.Domain { return u.identity.Domain }

// publish notifies the relay. Failures are logged and never change the outcome of a committed operation.
func (u *Usecase) publish(ctx context.Context, event entity.Event) {
	if err := u.notifier.Notify(ctx, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish transformer event", err,
			slog.String("event_id", event.Id.String()),
			slog.String("type", string(event.Type)),
			slogx.Stringer(logger.TxIdKey, event.TxId),
		)
	}
}

func rollback(ctx context.Context, tx datagateway.Tx) {
	if err := tx.Rollback(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to rollback transaction", err)
	}
}
