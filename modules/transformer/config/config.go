package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/internal/postgres"
	"github.com/gaze-network/omniverse-transformer/pkg/decimals"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
)

const (
	DefaultSweepInterval = time.Minute

	// PriceDecimals is the number of decimal places of a price rate.
	PriceDecimals = 8
)

type Config struct {
	Datasource string          `mapstructure:"datasource"` // Datasource to store transformer state. `memory` | `postgres`
	Postgres   postgres.Config `mapstructure:"postgres"`

	AssetId      string `mapstructure:"asset_id"`      // Omniverse asset converted by this transformer.
	FeeAssetId   string `mapstructure:"fee_asset_id"`  // Omniverse asset fees are paid in.
	FeeAmount    string `mapstructure:"fee_amount"`    // Fee paid on every outbound transfer. Default is 0.
	FeeRecipient string `mapstructure:"fee_recipient"` // Default is the transformer address.
	PriceRate    string `mapstructure:"price_rate"`    // Local token units per 10^8 Omniverse units.
	Price        string `mapstructure:"price"`         // Decimal alternative to price_rate, E.g. `1.5`.
	PublicKey    string `mapstructure:"public_key"`    // Transformer public key, 64/65/33 bytes hex.
	LocalAddress string `mapstructure:"local_address"` // Transformer account on the local token ledger.
	AdminToken   string `mapstructure:"admin_token"`   // Bearer token of the operator endpoints. They are disabled if empty.

	EIP712      EIP712Config      `mapstructure:"eip712"`
	StateKeeper StateKeeperConfig `mapstructure:"state_keeper"`
	LocalToken  LocalTokenConfig  `mapstructure:"local_token"`
	Relay       RelayConfig       `mapstructure:"relay"`
	Sweeper     SweeperConfig     `mapstructure:"sweeper"`
}

type EIP712Config struct {
	Name              string `mapstructure:"name"`
	Version           string `mapstructure:"version"`
	ChainId           int64  `mapstructure:"chain_id"`
	VerifyingContract string `mapstructure:"verifying_contract"`
}

type StateKeeperConfig struct {
	URL       string `mapstructure:"url"`
	AcceptAll bool   `mapstructure:"accept_all"` // Report every transaction as included. Development only.
}

type LocalTokenConfig struct {
	Type string `mapstructure:"type"` // `memory` | `http`
	URL  string `mapstructure:"url"`
}

type RelayConfig struct {
	URL string `mapstructure:"url"` // Events are only logged if empty.
}

type SweeperConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// Identity is the parsed, immutable identity and pricing of a transformer.
type Identity struct {
	AssetId      omniverse.AssetId
	FeeAssetId   omniverse.AssetId
	FeeAmount    uint128.Uint128
	FeeRecipient omniverse.Address
	PriceRate    uint128.Uint128
	PublicKey    []byte
	Address      omniverse.Address
	LocalAddress common.Address
	Domain       omniverse.Domain
}

// Identity parses and validates the identity section of the configuration.
func (c Config) Identity() (Identity, error) {
	var (
		id  Identity
		err error
	)
	if id.AssetId, err = parseHash(c.AssetId); err != nil {
		return Identity{}, errors.Wrap(err, "asset_id")
	}
	if id.FeeAssetId, err = parseHash(c.FeeAssetId); err != nil {
		return Identity{}, errors.Wrap(err, "fee_asset_id")
	}
	if id.FeeAmount, err = parseAmount(c.FeeAmount, true); err != nil {
		return Identity{}, errors.Wrap(err, "fee_amount")
	}
	if id.PriceRate, err = c.priceRate(); err != nil {
		return Identity{}, errors.WithStack(err)
	}

	if id.PublicKey, err = hexutil.Decode(c.PublicKey); err != nil {
		return Identity{}, errors.Wrapf(errs.InvalidArgument, "public_key: %s", err.Error())
	}
	if id.Address, err = omniverse.DeriveAddress(id.PublicKey); err != nil {
		return Identity{}, errors.Wrap(err, "public_key")
	}

	id.FeeRecipient = id.Address
	if c.FeeRecipient != "" {
		if id.FeeRecipient, err = omniverse.HexToAddress(c.FeeRecipient); err != nil {
			return Identity{}, errors.Wrap(err, "fee_recipient")
		}
	}

	if !common.IsHexAddress(c.LocalAddress) {
		return Identity{}, errors.Wrapf(errs.InvalidArgument, "local_address: %q is not an address", c.LocalAddress)
	}
	id.LocalAddress = common.HexToAddress(c.LocalAddress)

	id.Domain = omniverse.DefaultDomain()
	if c.EIP712.Name != "" {
		id.Domain.Name = c.EIP712.Name
	}
	if c.EIP712.Version != "" {
		id.Domain.Version = c.EIP712.Version
	}
	if c.EIP712.ChainId != 0 {
		id.Domain.ChainId = c.EIP712.ChainId
	}
	if c.EIP712.VerifyingContract != "" {
		if !common.IsHexAddress(c.EIP712.VerifyingContract) {
			return Identity{}, errors.Wrapf(errs.InvalidArgument, "eip712.verifying_contract: %q is not an address", c.EIP712.VerifyingContract)
		}
		id.Domain.VerifyingContract = common.HexToAddress(c.EIP712.VerifyingContract)
	}
	return id, nil
}

func (c Config) priceRate() (uint128.Uint128, error) {
	switch {
	case c.Price != "" && c.PriceRate != "":
		return uint128.Zero, errors.Wrap(errs.ConflictSetting, "only one of price and price_rate can be set")
	case c.Price != "":
		rate, err := decimals.ParseUint128(c.Price, PriceDecimals)
		if err != nil {
			return uint128.Zero, errors.Wrap(err, "price")
		}
		return rate, nil
	default:
		rate, err := parseAmount(c.PriceRate, false)
		if err != nil {
			return uint128.Zero, errors.Wrap(err, "price_rate")
		}
		return rate, nil
	}
}

func parseHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(strings.TrimSpace(s))
	if err != nil {
		return common.Hash{}, errors.Wrapf(errs.InvalidArgument, "%q: %s", s, err.Error())
	}
	if len(b) != common.HashLength {
		return common.Hash{}, errors.Wrapf(errs.InvalidArgument, "%q: expected %d bytes, got %d", s, common.HashLength, len(b))
	}
	return common.BytesToHash(b), nil
}

func parseAmount(s string, allowEmpty bool) (uint128.Uint128, error) {
	if s == "" && allowEmpty {
		return uint128.Zero, nil
	}
	amount, err := uint128.FromString(s)
	if err != nil {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "%q is not a uint128 amount", s)
	}
	return amount, nil
}
