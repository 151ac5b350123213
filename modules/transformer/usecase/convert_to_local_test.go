package usecase

import (
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConvertToLocal(t *testing.T) {
	f := newFixture(t)
	f.includeAll()
	user := newKey(t, 2)
	tx := f.transferFrom(t, user, 1000)
	txId, err := tx.TxId()
	require.NoError(t, err)

	record, err := f.uc.ConvertToLocal(f.ctx, tx, omniverse.RawPublicKey(user.PubKey()))
	require.NoError(t, err)

	owner := omniverse.LocalAddressFromPublicKey(user.PubKey())
	assert.Equal(t, txId, record.TxId)
	assert.Equal(t, owner, record.Owner)
	assert.Equal(t, omniverse.AddressFromPublicKey(user.PubKey()), record.OmniverseSender)
	assert.Equal(t, uint128.From64(1000), record.OmniverseAmount)
	assert.Equal(t, uint128.From64(1500), record.AmountOwed)
	assert.Equal(t, tx, record.Tx)

	stored, err := f.uc.GetInboundRecord(f.ctx, txId)
	require.NoError(t, err)
	assert.Equal(t, record.AmountOwed, stored.AmountOwed)

	// the received output becomes transformer liquidity
	utxos, err := f.uc.GetUTXOs(f.ctx, tokenAssetId)
	require.NoError(t, err)
	require.Len(t, utxos, 1)
	assert.Equal(t, txId, utxos[0].TxId)
	assert.Equal(t, uint32(0), utxos[0].Index)
	assert.Equal(t, uint128.From64(1000), utxos[0].Amount)

	events := f.events.ofType(entity.EventOmniverseToLocal)
	require.Len(t, events, 1)
	assert.Equal(t, txId, events[0].TxId)
	assert.Equal(t, owner, events[0].Owner)
	assert.Equal(t, uint128.From64(1500), events[0].LocalAmount)
}

func TestConvertToLocalCompressedKey(t *testing.T) {
	f := newFixture(t)
	f.includeAll()
	user := newKey(t, 2)

	_, err := f.uc.ConvertToLocal(f.ctx, f.transferFrom(t, user, 10), user.PubKey().SerializeCompressed())
	assert.NoError(t, err)
}

func TestConvertToLocalDuplicated(t *testing.T) {
	f := newFixture(t)
	f.includeAll()
	user := newKey(t, 2)
	publicKey := omniverse.RawPublicKey(user.PubKey())
	tx := f.transferFrom(t, user, 1000)
	txId, err := tx.TxId()
	require.NoError(t, err)

	_, err = f.uc.ConvertToLocal(f.ctx, tx, publicKey)
	require.NoError(t, err)

	_, err = f.uc.ConvertToLocal(f.ctx, tx, publicKey)
	var dupErr *TransactionDuplicatedError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, txId, dupErr.TxId)

	// still rejected once the claim has been paid
	require.NoError(t, f.ledger.Mint(f.ctx, transformerLocal, uint128.From64(1500)))
	_, err = f.uc.Claim(f.ctx, txId)
	require.NoError(t, err)
	_, err = f.uc.ConvertToLocal(f.ctx, tx, publicKey)
	assert.ErrorIs(t, err, ErrTransactionDuplicated)

	count, err := f.uc.CountInboundRecords(f.ctx, omniverse.LocalAddressFromPublicKey(user.PubKey()))
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestConvertToLocalReencodedSignature(t *testing.T) {
	f := newFixture(t)
	f.includeAll()
	user := newKey(t, 3)
	publicKey := omniverse.RawPublicKey(user.PubKey())
	tx := f.transferFrom(t, user, 1000)

	_, err := f.uc.ConvertToLocal(f.ctx, tx, publicKey)
	require.NoError(t, err)

	// same signature with a zero based recovery id hashes to another transaction id
	resubmitted := tx.Clone()
	resubmitted.Signature[64] -= 27
	_, err = f.uc.ConvertToLocal(f.ctx, resubmitted, publicKey)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	count, err := f.uc.CountInboundRecords(f.ctx, omniverse.LocalAddressFromPublicKey(user.PubKey()))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestConvertToLocalValidationOrder(t *testing.T) {
	user := newKey(t, 2)
	other := newKey(t, 3)
	userAddress := omniverse.AddressFromPublicKey(user.PubKey())
	publicKey := omniverse.RawPublicKey(user.PubKey())

	t.Run("sender is checked first", func(t *testing.T) {
		f := newFixture(t)
		tx := f.transferFrom(t, user, 1000)
		tx.AssetId = common.HexToHash("0x99")
		tx.Signature = nil

		_, err := f.uc.ConvertToLocal(f.ctx, tx, omniverse.RawPublicKey(other.PubKey()))
		var mismatch *PublicKeyNotMatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, userAddress, mismatch.Expected)
		assert.Equal(t, omniverse.AddressFromPublicKey(other.PubKey()), mismatch.Actual)
		f.oracle.AssertNotCalled(t, "IsIncluded", mock.Anything, mock.Anything)
	})

	t.Run("malformed public key", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.uc.ConvertToLocal(f.ctx, f.transferFrom(t, user, 1000), []byte{0x01, 0x02})
		assert.ErrorIs(t, err, ErrPublicKeyNotMatch)
	})

	t.Run("no inputs", func(t *testing.T) {
		f := newFixture(t)
		tx := f.transferFrom(t, user, 1000)
		tx.Inputs = nil
		_, err := f.uc.ConvertToLocal(f.ctx, tx, publicKey)
		var mismatch *PublicKeyNotMatchError
		require.True(t, errors.As(err, &mismatch))
		assert.True(t, mismatch.Expected.IsZero())
	})

	t.Run("asset before signature", func(t *testing.T) {
		f := newFixture(t)
		tx := f.transferFrom(t, user, 1000)
		tx.AssetId = common.HexToHash("0x99")

		_, err := f.uc.ConvertToLocal(f.ctx, tx, publicKey)
		var assetErr *NotSupportedAssetError
		require.True(t, errors.As(err, &assetErr))
		assert.Equal(t, common.HexToHash("0x99"), assetErr.AssetId)
	})

	t.Run("signature before inclusion", func(t *testing.T) {
		f := newFixture(t)
		tx := f.transferFrom(t, user, 1000)
		tx.Outputs[0].Amount = uint128.From64(999)

		_, err := f.uc.ConvertToLocal(f.ctx, tx, publicKey)
		assert.ErrorIs(t, err, ErrInvalidSignature)
		f.oracle.AssertNotCalled(t, "IsIncluded", mock.Anything, mock.Anything)
	})

	t.Run("signed by another key", func(t *testing.T) {
		f := newFixture(t)
		tx := f.transferFrom(t, user, 1000)
		f.sign(t, other, &tx)

		_, err := f.uc.ConvertToLocal(f.ctx, tx, publicKey)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("inclusion before destination", func(t *testing.T) {
		f := newFixture(t)
		f.oracle.On("IsIncluded", mock.Anything, mock.Anything).Return(false, nil).Once()
		tx := f.transferFrom(t, user, 1000)
		tx.Outputs[0].Address = omniverse.Address{0x77}
		f.sign(t, user, &tx)

		_, err := f.uc.ConvertToLocal(f.ctx, tx, publicKey)
		var notIncluded *NotIncludedError
		require.True(t, errors.As(err, &notIncluded))
		txId, _ := tx.TxId()
		assert.Equal(t, txId, notIncluded.TxId)
	})

	t.Run("destination before duplicate", func(t *testing.T) {
		f := newFixture(t)
		f.includeAll()
		tx := f.transferFrom(t, user, 1000)
		tx.Outputs[0].Address = omniverse.Address{0x77}
		f.sign(t, user, &tx)

		_, err := f.uc.ConvertToLocal(f.ctx, tx, publicKey)
		assert.ErrorIs(t, err, ErrNoOmniverseTokenReceived)
	})

	t.Run("state keeper failure", func(t *testing.T) {
		f := newFixture(t)
		f.oracle.On("IsIncluded", mock.Anything, mock.Anything).Return(false, errors.New("unavailable")).Once()

		_, err := f.uc.ConvertToLocal(f.ctx, f.transferFrom(t, user, 1000), publicKey)
		assert.ErrorContains(t, err, "unavailable")
	})
}

func TestConvertToLocalInclusionIsQueriedEveryCall(t *testing.T) {
	f := newFixture(t)
	user := newKey(t, 2)
	tx := f.transferFrom(t, user, 1000)
	f.oracle.On("IsIncluded", mock.Anything, tx).Return(false, nil).Once()
	f.oracle.On("IsIncluded", mock.Anything, tx).Return(true, nil).Once()

	_, err := f.uc.ConvertToLocal(f.ctx, tx, omniverse.RawPublicKey(user.PubKey()))
	assert.ErrorIs(t, err, ErrNotIncluded)

	_, err = f.uc.ConvertToLocal(f.ctx, tx, omniverse.RawPublicKey(user.PubKey()))
	assert.NoError(t, err)
	f.oracle.AssertNumberOfCalls(t, "IsIncluded", 2)
}

func TestConvertToLocalOverflow(t *testing.T) {
	f := newFixture(t)
	f.includeAll()
	user := newKey(t, 2)
	tx := f.transferFrom(t, user, 1)
	tx.Outputs = []omniverse.Output{
		{Address: f.identity.Address, Amount: uint128.Max},
		{Address: f.identity.Address, Amount: uint128.From64(1)},
	}
	f.sign(t, user, &tx)

	_, err := f.uc.ConvertToLocal(f.ctx, tx, omniverse.RawPublicKey(user.PubKey()))
	assert.ErrorIs(t, err, errs.OverflowUint128)
}

func TestConvertToLocalSerialized(t *testing.T) {
	f := newFixture(t)
	f.includeAll()
	user := newKey(t, 2)
	tx := f.transferFrom(t, user, 1000)
	publicKey := omniverse.RawPublicKey(user.PubKey())

	const workers = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		succeeded  int
		duplicated int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.ConvertToLocal(f.ctx, tx, publicKey)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrTransactionDuplicated):
				duplicated++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, duplicated)
}
