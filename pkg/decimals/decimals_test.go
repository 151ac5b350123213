package decimals

import (
	"testing"

	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDecimal(t *testing.T) {
	testCases := []struct {
		amount   uint128.Uint128
		decimals int32
		expected string
	}{
		{uint128.From64(150_000_000), 8, "1.5"},
		{uint128.From64(1), 8, "0.00000001"},
		{uint128.Zero, 8, "0"},
		{uint128.From64(42), 0, "42"},
		{uint128.Max, 0, "340282366920938463463374607431768211455"},
	}
	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, ToDecimal(tc.amount, tc.decimals).String())
		})
	}
}

func TestParseUint128(t *testing.T) {
	amount, err := ParseUint128("1.5", 8)
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(150_000_000), amount)

	amount, err = ParseUint128("0.00000001", 8)
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(1), amount)

	t.Run("too many decimal places", func(t *testing.T) {
		_, err := ParseUint128("0.000000001", 8)
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
	t.Run("negative", func(t *testing.T) {
		_, err := ParseUint128("-1", 8)
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
	t.Run("not a number", func(t *testing.T) {
		_, err := ParseUint128("one", 8)
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
	t.Run("overflow", func(t *testing.T) {
		_, err := ParseUint128("340282366920938463463374607431768211456", 0)
		assert.ErrorIs(t, err, errs.OverflowUint128)
	})
}

func TestMustFromString(t *testing.T) {
	assert.Equal(t, "1.25", MustFromString("1.25").String())
	assert.Panics(t, func() { MustFromString("x") })
}
