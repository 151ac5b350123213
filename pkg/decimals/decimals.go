// Package decimals converts between integer token amounts and their decimal representation.
package decimals

import (
	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/shopspring/decimal"
)

const (
	DefaultDivPrecision = 36
)

func init() {
	decimal.DivisionPrecision = DefaultDivPrecision
}

// MustFromString convert string to decimal.Decimal. Panic if error
// string must be a valid number, not NaN, Inf or empty string.
func MustFromString(s string) decimal.Decimal {
	return utils.Must(decimal.NewFromString(s))
}

// ToDecimal returns amount / 10^decimals.
func ToDecimal(amount uint128.Uint128, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(amount.Big(), -decimals)
}

// ToUint128 returns value * 10^decimals. The result must be a non-negative integer that fits in 128 bits.
func ToUint128(value decimal.Decimal, decimals int32) (uint128.Uint128, error) {
	if value.IsNegative() {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "%s is negative", value)
	}
	shifted := value.Shift(decimals)
	if !shifted.IsInteger() {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "%s has more than %d decimal places", value, decimals)
	}
	amount, err := uint128.FromBig(shifted.BigInt())
	if err != nil {
		return uint128.Zero, errors.Wrapf(errs.OverflowUint128, "%s", value)
	}
	return amount, nil
}

// ParseUint128 parses a decimal string such as "1.5" into its integer amount at the given precision.
func ParseUint128(s string, decimals int32) (uint128.Uint128, error) {
	value, err := decimal.NewFromString(s)
	if err != nil {
		return uint128.Zero, errors.Wrapf(errs.InvalidArgument, "%q is not a decimal number", s)
	}
	amount, err := ToUint128(value, decimals)
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	return amount, nil
}
