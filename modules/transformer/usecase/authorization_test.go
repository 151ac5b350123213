package usecase

import (
	"testing"

	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToOmniverseSigned(t *testing.T) {
	f := newFixture(t)
	f.seedUTXOs(t, tokenAssetId, 100, 100)
	f.seedUTXOs(t, feeAssetId, 10, 10)

	key := newKey(t, 0x51)
	owner := omniverse.LocalAddressFromPublicKey(key.PubKey())
	require.NoError(t, f.ledger.Mint(f.ctx, owner, uint128.From64(1000)))
	require.NoError(t, f.ledger.Approve(f.ctx, owner, transformerLocal, uint128.From64(1000)))

	nonce, err := f.uc.OutboundNonce(f.ctx, owner)
	require.NoError(t, err)
	require.Zero(t, nonce)

	req := OutboundRequest{Caller: owner, Recipient: recipient, Amount: uint128.From64(100), Nonce: nonce}
	signature, err := SignOutboundRequest(key, f.identity.Address, req)
	require.NoError(t, err)

	record, err := f.uc.ConvertToOmniverseSigned(f.ctx, req, signature)
	require.NoError(t, err)
	assert.Equal(t, owner, record.Owner)
	assert.Equal(t, uint128.From64(850), f.balance(t, owner))

	nonce, err = f.uc.OutboundNonce(f.ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), nonce)

	t.Run("replayed", func(t *testing.T) {
		_, err := f.uc.ConvertToOmniverseSigned(f.ctx, req, signature)
		var nonceErr *InvalidNonceError
		require.ErrorAs(t, err, &nonceErr)
		assert.Equal(t, uint64(1), nonceErr.Expected)
		assert.Equal(t, uint64(0), nonceErr.Actual)
		assert.ErrorIs(t, err, errs.Conflict)
		assert.Equal(t, uint128.From64(850), f.balance(t, owner))
	})

	t.Run("signed by another account", func(t *testing.T) {
		other := newKey(t, 0x52)
		stolen := OutboundRequest{Caller: owner, Recipient: omniverse.Address{0x66}, Amount: uint128.From64(100), Nonce: 1}
		signature, err := SignOutboundRequest(other, f.identity.Address, stolen)
		require.NoError(t, err)

		_, err = f.uc.ConvertToOmniverseSigned(f.ctx, stolen, signature)
		var callerErr *UnauthorizedCallerError
		require.ErrorAs(t, err, &callerErr)
		assert.Equal(t, owner, callerErr.Caller)
		assert.Equal(t, omniverse.LocalAddressFromPublicKey(other.PubKey()), callerErr.Signer)
		assert.ErrorIs(t, err, errs.Unauthorized)
		assert.Equal(t, uint128.From64(850), f.balance(t, owner))
	})

	t.Run("tampered amount", func(t *testing.T) {
		next := OutboundRequest{Caller: owner, Recipient: recipient, Amount: uint128.From64(10), Nonce: 1}
		signature, err := SignOutboundRequest(key, f.identity.Address, next)
		require.NoError(t, err)

		next.Amount = uint128.From64(100)
		_, err = f.uc.ConvertToOmniverseSigned(f.ctx, next, signature)
		assert.ErrorIs(t, err, ErrUnauthorizedCaller)
	})

	t.Run("signed for another transformer", func(t *testing.T) {
		next := OutboundRequest{Caller: owner, Recipient: recipient, Amount: uint128.From64(10), Nonce: 1}
		signature, err := SignOutboundRequest(key, omniverse.Address{0x01}, next)
		require.NoError(t, err)

		_, err = f.uc.ConvertToOmniverseSigned(f.ctx, next, signature)
		assert.ErrorIs(t, err, ErrUnauthorizedCaller)
	})

	t.Run("malformed signature", func(t *testing.T) {
		_, err := f.uc.ConvertToOmniverseSigned(f.ctx, req, signature[:64])
		assert.ErrorIs(t, err, ErrUnauthorizedCaller)
	})
}
