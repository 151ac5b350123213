package usecase

import (
	"testing"

	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordsSingle(t *testing.T) {
	f := newFixture(t)
	f.includeAll()
	f.seedUTXOs(t, tokenAssetId, 1000)
	f.seedUTXOs(t, feeAssetId, 1000)
	f.fundCaller(t, 1000)
	user := newKey(t, 2)
	owner := omniverse.LocalAddressFromPublicKey(user.PubKey())

	_, err := f.uc.ConvertToOmniverse(f.ctx, caller, recipient, uint128.From64(10))
	require.NoError(t, err)
	_, err = f.uc.ConvertToLocal(f.ctx, f.transferFrom(t, user, 10), omniverse.RawPublicKey(user.PubKey()))
	require.NoError(t, err)

	for _, limit := range []int32{0, 1, 10} {
		outbound, err := f.uc.GetOutboundRecords(f.ctx, caller, limit, 0)
		require.NoError(t, err)
		assert.Len(t, outbound, 1, "limit %d", limit)

		inbound, err := f.uc.GetInboundRecords(f.ctx, owner, limit, 0)
		require.NoError(t, err)
		assert.Len(t, inbound, 1, "limit %d", limit)
	}

	outbound, err := f.uc.GetOutboundRecords(f.ctx, owner, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, outbound)
}

func TestRecordsWindow(t *testing.T) {
	f := newFixture(t)
	f.seedUTXOs(t, tokenAssetId, 1000)
	f.seedUTXOs(t, feeAssetId, 1000)
	f.fundCaller(t, 1000)
	for _, amount := range []uint64{1, 2, 3} {
		_, err := f.uc.ConvertToOmniverse(f.ctx, caller, recipient, uint128.From64(amount))
		require.NoError(t, err)
	}

	amounts := func(records []*entity.OutboundRecord) []uint64 {
		result := make([]uint64, 0, len(records))
		for _, r := range records {
			result = append(result, r.OmniverseAmount.Uint64())
		}
		return result
	}

	testCases := []struct {
		limit    int32
		offset   int32
		expected []uint64
	}{
		{limit: 2, offset: 0, expected: []uint64{1, 2}},
		{limit: 2, offset: 2, expected: []uint64{3}},
		{limit: 0, offset: 1, expected: []uint64{2, 3}},
		{limit: -1, offset: 0, expected: []uint64{1, 2, 3}},
		{limit: 1, offset: -5, expected: []uint64{1}},
		{limit: 5, offset: 10, expected: []uint64{}},
	}
	for _, tc := range testCases {
		records, err := f.uc.GetOutboundRecords(f.ctx, caller, tc.limit, tc.offset)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, amounts(records), "limit %d offset %d", tc.limit, tc.offset)
	}

	count, err := f.uc.CountOutboundRecords(f.ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
