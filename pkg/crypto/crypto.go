package crypto

import (
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
)

// Client holds an Omniverse signing key.
type Client struct {
	privateKey *btcec.PrivateKey
}

func New(privateKeyStr string) (*Client, error) {
	privateKeyBytes, err := hex.DecodeString(strings.TrimPrefix(privateKeyStr, "0x"))
	if err != nil {
		return nil, errors.Wrap(errs.InvalidArgument, "decode private key: "+err.Error())
	}
	if len(privateKeyBytes) != btcec.PrivKeyBytesLen {
		return nil, errors.Wrapf(errs.InvalidArgument, "private key must be %d bytes, got %d", btcec.PrivKeyBytesLen, len(privateKeyBytes))
	}
	privateKey, _ := btcec.PrivKeyFromBytes(privateKeyBytes)
	return &Client{
		privateKey: privateKey,
	}, nil
}

// Generate creates a client with a fresh random key.
func Generate() (*Client, error) {
	privateKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate private key")
	}
	return &Client{
		privateKey: privateKey,
	}, nil
}

func (c *Client) PrivateKeyHex() string {
	return hex.EncodeToString(c.privateKey.Serialize())
}

// PublicKey returns the 64-byte x||y public key.
func (c *Client) PublicKey() []byte {
	return omniverse.RawPublicKey(c.privateKey.PubKey())
}

func (c *Client) Address() omniverse.Address {
	return omniverse.AddressFromPublicKey(c.privateKey.PubKey())
}

func (c *Client) LocalAddress() common.Address {
	return omniverse.LocalAddressFromPublicKey(c.privateKey.PubKey())
}

// SignTransfer signs tx under domain and stores the signature on the returned copy.
func (c *Client) SignTransfer(domain omniverse.Domain, tx omniverse.Transfer) (omniverse.Transfer, error) {
	signature, err := domain.Sign(c.privateKey, tx)
	if err != nil {
		return omniverse.Transfer{}, errors.WithStack(err)
	}
	signed := tx.Clone()
	signed.Signature = signature
	return signed, nil
}
