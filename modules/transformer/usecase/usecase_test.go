package usecase

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/config"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/localtoken"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/repository/inmemory"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/statekeeper/mocks"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	tokenAssetId = common.HexToHash("0x01")
	feeAssetId   = common.Hash{}
	feeRecipient = omniverse.Address{0xfe}

	transformerLocal = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	caller           = common.HexToAddress("0x00000000000000000000000000000000000000cc")
)

type eventRecorder struct {
	mu     sync.Mutex
	events []entity.Event
}

func (r *eventRecorder) Notify(ctx context.Context, event entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) ofType(eventType entity.EventType) []entity.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Event
	for _, e := range r.events {
		if e.Type == eventType {
			result = append(result, e)
		}
	}
	return result
}

type fixture struct {
	ctx      context.Context
	uc       *Usecase
	identity config.Identity
	repo     *inmemory.Repository
	ledger   *localtoken.Memory
	oracle   *mocks.Oracle
	events   *eventRecorder
	nonce    int64
}

func newKey(t *testing.T, seed byte) *btcec.PrivateKey {
	t.Helper()
	raw := make([]byte, 32)
	raw[0] = 0x42
	raw[31] = seed
	key, _ := btcec.PrivKeyFromBytes(raw)
	return key
}

// newFixture builds a transformer with kprice 1.5 and a fee of 10.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	transformerKey := newKey(t, 1)
	identity := config.Identity{
		AssetId:      tokenAssetId,
		FeeAssetId:   feeAssetId,
		FeeAmount:    uint128.From64(10),
		FeeRecipient: feeRecipient,
		PriceRate:    uint128.From64(150_000_000),
		PublicKey:    omniverse.RawPublicKey(transformerKey.PubKey()),
		Address:      omniverse.AddressFromPublicKey(transformerKey.PubKey()),
		LocalAddress: transformerLocal,
		Domain:       omniverse.DefaultDomain(),
	}

	f := &fixture{
		ctx:      context.Background(),
		identity: identity,
		repo:     inmemory.NewRepository(),
		ledger:   localtoken.NewMemory(),
		oracle:   mocks.NewOracle(t),
		events:   &eventRecorder{},
	}
	uc, err := New(identity, f.repo, f.ledger, f.oracle, f.events)
	require.NoError(t, err)
	f.uc = uc
	return f
}

func (f *fixture) includeAll() {
	f.oracle.On("IsIncluded", mock.Anything, mock.Anything).Return(true, nil).Maybe()
}

// transferFrom returns a transfer signed by key paying amount to the transformer.
func (f *fixture) transferFrom(t *testing.T, key *btcec.PrivateKey, amount uint64) omniverse.Transfer {
	t.Helper()
	f.nonce++
	sender := omniverse.AddressFromPublicKey(key.PubKey())
	tx := omniverse.Transfer{
		AssetId: tokenAssetId,
		Inputs: []omniverse.Input{
			{TxId: common.BigToHash(big.NewInt(f.nonce)), Index: 0, Amount: uint128.From64(amount + 1), Address: sender},
		},
		Outputs: []omniverse.Output{
			{Address: f.identity.Address, Amount: uint128.From64(amount)},
			{Address: sender, Amount: uint128.From64(1)},
		},
	}
	f.sign(t, key, &tx)
	return tx
}

func (f *fixture) sign(t *testing.T, key *btcec.PrivateKey, tx *omniverse.Transfer) {
	t.Helper()
	signature, err := f.identity.Domain.Sign(key, *tx)
	require.NoError(t, err)
	tx.Signature = signature
}

func (f *fixture) seedUTXOs(t *testing.T, assetId omniverse.AssetId, amounts ...uint64) {
	t.Helper()
	utxos := make([]*entity.UTXO, 0, len(amounts))
	for i, amount := range amounts {
		f.nonce++
		utxos = append(utxos, &entity.UTXO{
			AssetId: assetId,
			TxId:    common.BigToHash(big.NewInt(1_000_000 + f.nonce)),
			Index:   uint32(i),
			Amount:  uint128.From64(amount),
		})
	}
	require.NoError(t, f.uc.AddUTXOs(f.ctx, utxos))
}

func (f *fixture) balance(t *testing.T, owner common.Address) uint128.Uint128 {
	t.Helper()
	balance, err := f.ledger.BalanceOf(f.ctx, owner)
	require.NoError(t, err)
	return balance
}

func (f *fixture) utxoAmounts(t *testing.T, assetId omniverse.AssetId) []uint64 {
	t.Helper()
	utxos, err := f.uc.GetUTXOs(f.ctx, assetId)
	require.NoError(t, err)
	amounts := make([]uint64, 0, len(utxos))
	for _, u := range utxos {
		amounts = append(amounts, u.Amount.Uint64())
	}
	return amounts
}
