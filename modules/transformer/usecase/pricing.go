package usecase

import (
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/config"
	"github.com/gaze-network/uint128"
)

const (
	// PriceScale is the denominator of the price rate.
	PriceScale = 100_000_000

	PriceDecimals = config.PriceDecimals
)

var priceScale = big.NewInt(PriceScale)

// LocalAmount returns floor(priceRate * omniverseAmount / PriceScale).
func LocalAmount(priceRate, omniverseAmount uint128.Uint128) (uint128.Uint128, error) {
	product := new(big.Int).Mul(priceRate.Big(), omniverseAmount.Big())
	product.Quo(product, priceScale)
	amount, err := uint128.FromBig(product)
	if err != nil {
		return uint128.Zero, errors.Wrapf(errs.OverflowUint128, "local amount of %s at rate %s", omniverseAmount, priceRate)
	}
	return amount, nil
}

// LocalAmount converts an Omniverse amount at the configured price rate.
func (u *Usecase) LocalAmount(omniverseAmount uint128.Uint128) (uint128.Uint128, error) {
	return LocalAmount(u.identity.PriceRate, omniverseAmount)
}
