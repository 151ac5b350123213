package omniverse

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustKey(t *testing.T, seed byte) *btcec.PrivateKey {
	t.Helper()
	raw := make([]byte, 32)
	raw[31] = seed
	raw[0] = 0x11
	key, _ := btcec.PrivKeyFromBytes(raw)
	return key
}

func sampleTransfer(sender Address) Transfer {
	return Transfer{
		AssetId: common.HexToHash("0x01"),
		Inputs: []Input{
			{TxId: common.HexToHash("0xaa"), Index: 3, Amount: uint128.From64(1000), Address: sender},
		},
		Outputs: []Output{
			{Address: Address{0x01}, Amount: uint128.From64(600)},
			{Address: sender, Amount: uint128.From64(400)},
		},
		FeeInputs: []Input{
			{TxId: common.HexToHash("0xbb"), Index: 0, Amount: uint128.From64(10), Address: sender},
		},
		FeeOutputs: []Output{
			{Address: Address{0x02}, Amount: uint128.From64(10)},
		},
	}
}

func TestDeriveAddress(t *testing.T) {
	key := mustKey(t, 1)
	pub := key.PubKey()

	raw, err := DeriveAddress(RawPublicKey(pub))
	require.NoError(t, err)
	uncompressed, err := DeriveAddress(pub.SerializeUncompressed())
	require.NoError(t, err)
	compressed, err := DeriveAddress(pub.SerializeCompressed())
	require.NoError(t, err)

	assert.Equal(t, raw, uncompressed)
	assert.Equal(t, raw, compressed)
	assert.Equal(t, pub.SerializeCompressed()[1:], raw.Bytes())

	_, err = DeriveAddress([]byte{0x01, 0x02})
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestDeriveLocalAddress(t *testing.T) {
	key := mustKey(t, 2)
	local, err := DeriveLocalAddress(RawPublicKey(key.PubKey()))
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.ToECDSA().PublicKey), local)
}

func TestAddressText(t *testing.T) {
	addr := Address{0xde, 0xad}
	parsed, err := HexToAddress(addr.Hex())
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	_, err = HexToAddress("0x1234")
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestEncodeDecode(t *testing.T) {
	tx := sampleTransfer(Address{0x09})
	tx.Signature = []byte{1, 2, 3}

	encoded, err := Encode(tx)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, tx, decoded)

	_, err = Decode([]byte{0x01})
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestTxIdDependsOnSignature(t *testing.T) {
	tx := sampleTransfer(Address{0x09})
	unsigned, err := tx.TxId()
	require.NoError(t, err)

	tx.Signature = make([]byte, SignatureLength)
	signed, err := tx.TxId()
	require.NoError(t, err)

	assert.NotEqual(t, unsigned, signed)
}

func TestSignVerify(t *testing.T) {
	domain := DefaultDomain()
	key := mustKey(t, 3)
	sender := AddressFromPublicKey(key.PubKey())
	tx := sampleTransfer(sender)

	signature, err := domain.Sign(key, tx)
	require.NoError(t, err)
	require.Len(t, signature, SignatureLength)
	assert.Contains(t, []byte{27, 28}, signature[64])

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, domain.Verify(tx, signature, sender))
	})

	t.Run("zero based recovery id", func(t *testing.T) {
		sig := append([]byte(nil), signature...)
		sig[64] -= 27
		assert.ErrorIs(t, domain.Verify(tx, sig, sender), ErrInvalidSignature)
	})

	t.Run("high s", func(t *testing.T) {
		var s btcec.ModNScalar
		s.SetByteSlice(signature[32:64])
		s.Negate()
		sBytes := s.Bytes()

		sig := append([]byte(nil), signature...)
		copy(sig[32:64], sBytes[:])
		sig[64] = 27 + 28 - sig[64]
		assert.ErrorIs(t, domain.Verify(tx, sig, sender), ErrInvalidSignature)
	})

	t.Run("signature field is not signed", func(t *testing.T) {
		signed := tx.Clone()
		signed.Signature = signature
		assert.NoError(t, domain.Verify(signed, signature, sender))
	})

	t.Run("tampered transfer", func(t *testing.T) {
		tampered := tx.Clone()
		tampered.Outputs[0].Amount = uint128.From64(601)
		assert.ErrorIs(t, domain.Verify(tampered, signature, sender), ErrInvalidSignature)
	})

	t.Run("other signer", func(t *testing.T) {
		other := AddressFromPublicKey(mustKey(t, 4).PubKey())
		assert.ErrorIs(t, domain.Verify(tx, signature, other), ErrInvalidSignature)
	})

	t.Run("other domain", func(t *testing.T) {
		d := domain
		d.ChainId = 5
		assert.ErrorIs(t, d.Verify(tx, signature, sender), ErrInvalidSignature)
	})

	t.Run("malformed", func(t *testing.T) {
		assert.ErrorIs(t, domain.Verify(tx, signature[:64], sender), ErrInvalidSignature)

		sig := append([]byte(nil), signature...)
		sig[64] = 5
		assert.ErrorIs(t, domain.Verify(tx, sig, sender), ErrInvalidSignature)
	})
}

func TestValidateSignature(t *testing.T) {
	key := mustKey(t, 5)
	signature, err := DefaultDomain().Sign(key, sampleTransfer(AddressFromPublicKey(key.PubKey())))
	require.NoError(t, err)
	assert.NoError(t, ValidateSignature(signature))

	zeroS := append([]byte(nil), signature...)
	copy(zeroS[32:64], make([]byte, 32))
	assert.ErrorIs(t, ValidateSignature(zeroS), ErrInvalidSignature)

	assert.ErrorIs(t, ValidateSignature(nil), ErrInvalidSignature)
}

func TestAmountTo(t *testing.T) {
	tx := sampleTransfer(Address{0x09})
	tx.Outputs = append(tx.Outputs, Output{Address: Address{0x01}, Amount: uint128.From64(5)})

	amount, err := tx.AmountTo(Address{0x01})
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(605), amount)

	amount, err = tx.AmountTo(Address{0x77})
	require.NoError(t, err)
	assert.True(t, amount.IsZero())

	tx.Outputs = []Output{
		{Address: Address{0x01}, Amount: uint128.Max},
		{Address: Address{0x01}, Amount: uint128.From64(1)},
	}
	_, err = tx.AmountTo(Address{0x01})
	assert.True(t, errors.Is(err, errs.OverflowUint128))
}

func TestOutputIndex(t *testing.T) {
	tx := sampleTransfer(Address{0x09})
	assert.Equal(t, uint32(1), tx.OutputIndex(1, false))
	assert.Equal(t, uint32(2), tx.OutputIndex(0, true))
}
