package statekeeper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/pkg/httpclient"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransfer() omniverse.Transfer {
	return omniverse.Transfer{
		AssetId: common.HexToHash("0x01"),
		Inputs: []omniverse.Input{
			{TxId: common.HexToHash("0xaa"), Amount: uint128.From64(10), Address: omniverse.Address{0x01}},
		},
		Outputs: []omniverse.Output{
			{Address: omniverse.Address{0x02}, Amount: uint128.From64(10)},
		},
	}
}

func TestStatic(t *testing.T) {
	ctx := context.Background()
	tx := sampleTransfer()
	txId, err := tx.TxId()
	require.NoError(t, err)

	oracle := NewStatic()
	included, err := oracle.IsIncluded(ctx, tx)
	require.NoError(t, err)
	assert.False(t, included)

	oracle.Include(txId)
	included, err = oracle.IsIncluded(ctx, tx)
	require.NoError(t, err)
	assert.True(t, included)

	included, err = NewAcceptAll().IsIncluded(ctx, omniverse.Transfer{})
	require.NoError(t, err)
	assert.True(t, included)
}

func TestClientIsIncluded(t *testing.T) {
	tx := sampleTransfer()
	txId, err := tx.TxId()
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/transactions/inclusion", r.URL.Path)

		var req inclusionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, txId, req.TxId)
		decoded, err := omniverse.Decode(req.Tx)
		require.NoError(t, err)
		assert.Equal(t, tx, decoded)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"result": map[string]any{"included": true}})
	}))
	t.Cleanup(server.Close)

	httpClient, err := httpclient.New(server.URL)
	require.NoError(t, err)
	included, err := NewClient(httpClient).IsIncluded(context.Background(), tx)
	require.NoError(t, err)
	assert.True(t, included)
}

func TestClientIsIncludedFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "unavailable"})
	}))
	t.Cleanup(server.Close)

	httpClient, err := httpclient.New(server.URL)
	require.NoError(t, err)
	_, err = NewClient(httpClient).IsIncluded(context.Background(), sampleTransfer())
	assert.ErrorContains(t, err, "unavailable")
}
