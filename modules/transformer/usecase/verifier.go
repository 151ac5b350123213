package usecase

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
)

type derivedAddress struct {
	omniverse omniverse.Address
	local     common.Address
}

func (u *Usecase) deriveAddresses(publicKey []byte) (derivedAddress, error) {
	key := string(publicKey)
	if derived, ok := u.addressCache.Get(key); ok {
		return derived, nil
	}
	pub, err := omniverse.ParsePublicKey(publicKey)
	if err != nil {
		return derivedAddress{}, errors.WithStack(err)
	}
	derived := derivedAddress{
		omniverse: omniverse.AddressFromPublicKey(pub),
		local:     omniverse.LocalAddressFromPublicKey(pub),
	}
	u.addressCache.Add(key, derived)
	return derived, nil
}

// matchSender checks that publicKey owns the first input of tx.
func (u *Usecase) matchSender(tx *omniverse.Transfer, publicKey []byte) (derivedAddress, error) {
	expected, _ := tx.Sender()
	derived, err := u.deriveAddresses(publicKey)
	if err != nil {
		return derivedAddress{}, errors.Wrap(&PublicKeyNotMatchError{Expected: expected}, err.Error())
	}
	if len(tx.Inputs) == 0 || derived.omniverse != expected {
		return derivedAddress{}, errors.WithStack(&PublicKeyNotMatchError{
			Expected: expected,
			Actual:   derived.omniverse,
		})
	}
	return derived, nil
}

// verifySignature checks the transfer's own signature against the sender address.
func (u *Usecase) verifySignature(tx *omniverse.Transfer, sender omniverse.Address) error {
	if err := u.identity.Domain.Verify(*tx, tx.Signature, sender); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
