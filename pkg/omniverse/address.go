package omniverse

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gaze-network/omniverse-transformer/common/errs"
)

// PublicKeyLength is the length of a raw x||y public key.
const PublicKeyLength = 64

// ParsePublicKey parses a secp256k1 public key given as raw 64-byte x||y,
// 65-byte uncompressed or 33-byte compressed form.
func ParsePublicKey(publicKey []byte) (*btcec.PublicKey, error) {
	raw := publicKey
	if len(raw) == PublicKeyLength {
		raw = append([]byte{0x04}, publicKey...)
	}
	pub, err := btcec.ParsePubKey(raw)
	if err != nil {
		return nil, errors.Wrapf(errs.InvalidArgument, "invalid public key: %s", err.Error())
	}
	return pub, nil
}

// AddressFromPublicKey returns the Omniverse address of pub.
func AddressFromPublicKey(pub *btcec.PublicKey) Address {
	var addr Address
	copy(addr[:], schnorr.SerializePubKey(pub))
	return addr
}

// DeriveAddress returns the Omniverse address of an encoded public key.
func DeriveAddress(publicKey []byte) (Address, error) {
	pub, err := ParsePublicKey(publicKey)
	if err != nil {
		return Address{}, errors.WithStack(err)
	}
	return AddressFromPublicKey(pub), nil
}

// LocalAddressFromPublicKey returns the account-ledger address controlled by pub.
func LocalAddressFromPublicKey(pub *btcec.PublicKey) common.Address {
	return common.BytesToAddress(crypto.Keccak256(pub.SerializeUncompressed()[1:])[12:])
}

// DeriveLocalAddress returns the account-ledger address of an encoded public key.
func DeriveLocalAddress(publicKey []byte) (common.Address, error) {
	pub, err := ParsePublicKey(publicKey)
	if err != nil {
		return common.Address{}, errors.WithStack(err)
	}
	return LocalAddressFromPublicKey(pub), nil
}

// RawPublicKey returns the 64-byte x||y form of pub.
func RawPublicKey(pub *btcec.PublicKey) []byte {
	return pub.SerializeUncompressed()[1:]
}
