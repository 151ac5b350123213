package httphandler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/config"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/localtoken"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/repository/inmemory"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/statekeeper"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/usecase"
	"github.com/gaze-network/omniverse-transformer/pkg/errorhandler"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminToken = "admin-secret"

var (
	tokenAssetId     = common.HexToHash("0x01")
	feeAssetId       = common.Hash{}
	transformerLocal = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	callerKey        = newKey(0x33)
	caller           = omniverse.LocalAddressFromPublicKey(callerKey.PubKey())
)

type testServer struct {
	app      *fiber.App
	identity config.Identity
	ledger   *localtoken.Memory
}

type testResponse[T any] struct {
	Result *T     `json:"result"`
	Error  string `json:"error"`
	Code   string `json:"code"`
}

func newKey(seed byte) *btcec.PrivateKey {
	raw := make([]byte, 32)
	raw[0] = 0x24
	raw[31] = seed
	key, _ := btcec.PrivKeyFromBytes(raw)
	return key
}

func newTestServer(t *testing.T, opts ...func(*config.Identity)) *testServer {
	t.Helper()
	key := newKey(1)
	identity := config.Identity{
		AssetId:      tokenAssetId,
		FeeAssetId:   feeAssetId,
		FeeAmount:    uint128.Zero,
		FeeRecipient: omniverse.AddressFromPublicKey(key.PubKey()),
		PriceRate:    uint128.From64(200_000_000),
		PublicKey:    omniverse.RawPublicKey(key.PubKey()),
		Address:      omniverse.AddressFromPublicKey(key.PubKey()),
		LocalAddress: transformerLocal,
		Domain:       omniverse.DefaultDomain(),
	}
	for _, opt := range opts {
		opt(&identity)
	}
	ledger := localtoken.NewMemory()
	uc, err := usecase.New(identity, inmemory.NewRepository(), ledger, statekeeper.NewAcceptAll(), nil)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorhandler.NewHTTPErrorHandler(),
	})
	require.NoError(t, New(uc, adminToken).Mount(app))
	return &testServer{app: app, identity: identity, ledger: ledger}
}

func doRequest[T any](t *testing.T, s *testServer, method, path string, body any) (int, testResponse[T]) {
	t.Helper()
	return doRequestWithHeaders[T](t, s, method, path, body, nil)
}

func doRequestWithHeaders[T any](t *testing.T, s *testServer, method, path string, body any, headers map[string]string) (int, testResponse[T]) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result testResponse[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

func (s *testServer) signedTransfer(t *testing.T, key *btcec.PrivateKey, amount uint64) omniverse.Transfer {
	t.Helper()
	sender := omniverse.AddressFromPublicKey(key.PubKey())
	tx := omniverse.Transfer{
		AssetId: tokenAssetId,
		Inputs: []omniverse.Input{
			{TxId: common.HexToHash("0x1234"), Index: 0, Amount: uint128.From64(amount), Address: sender},
		},
		Outputs: []omniverse.Output{
			{Address: s.identity.Address, Amount: uint128.From64(amount)},
		},
	}
	signature, err := s.identity.Domain.Sign(key, tx)
	require.NoError(t, err)
	tx.Signature = signature
	return tx
}

func (s *testServer) addLiquidity(t *testing.T, assetId omniverse.AssetId, amounts ...string) {
	t.Helper()
	utxos := make([]newUTXO, 0, len(amounts))
	for i, amount := range amounts {
		utxos = append(utxos, newUTXO{AssetId: &assetId, TxId: common.HexToHash("0xabcd"), Index: uint32(i), Amount: amount})
	}
	status, resp := doRequestWithHeaders[addUTXOsResult](t, s, http.MethodPost, "/v1/transformer/utxos", addUTXOsRequest{UTXOs: utxos}, map[string]string{
		fiber.HeaderAuthorization: "Bearer " + adminToken,
	})
	require.Equal(t, http.StatusOK, status, resp.Error)
	require.Equal(t, len(amounts), resp.Result.Added)
}

// outboundRequest returns a request of key's account signed with the nonce reported by the server.
func (s *testServer) outboundRequest(t *testing.T, key *btcec.PrivateKey, recipient omniverse.Address, amount uint64) convertToOmniverseRequest {
	t.Helper()
	owner := omniverse.LocalAddressFromPublicKey(key.PubKey())
	status, nonce := doRequest[getNonceResult](t, s, http.MethodGet, "/v1/transformer/nonce/"+owner.Hex(), nil)
	require.Equal(t, http.StatusOK, status, nonce.Error)

	req := usecase.OutboundRequest{Caller: owner, Recipient: recipient, Amount: uint128.From64(amount), Nonce: nonce.Result.Nonce}
	signature, err := usecase.SignOutboundRequest(key, s.identity.Address, req)
	require.NoError(t, err)
	return convertToOmniverseRequest{
		Caller:    owner.Hex(),
		Recipient: recipient.Hex(),
		Amount:    req.Amount.String(),
		Nonce:     req.Nonce,
		Signature: signature,
	}
}

func (s *testServer) fund(t *testing.T, owner common.Address, amount uint64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.ledger.Mint(ctx, owner, uint128.From64(amount)))
	require.NoError(t, s.ledger.Approve(ctx, owner, transformerLocal, uint128.From64(amount)))
}

func TestGetInfo(t *testing.T) {
	s := newTestServer(t)
	s.addLiquidity(t, tokenAssetId, "100", "250")
	require.NoError(t, s.ledger.Mint(context.Background(), transformerLocal, uint128.From64(42)))

	status, resp := doRequest[getInfoResult](t, s, http.MethodGet, "/v1/transformer/info", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "350", resp.Result.AssetLiquidity)
	assert.Equal(t, "0", resp.Result.FeeLiquidity)
	assert.Equal(t, "42", resp.Result.LocalBalance)
	assert.Equal(t, "200000000", resp.Result.PriceRate)
	assert.Equal(t, "2", resp.Result.Price)
	assert.Equal(t, s.identity.Address, resp.Result.TransformerAddress)
}

func TestConvertToLocalAndClaim(t *testing.T) {
	s := newTestServer(t)
	key := newKey(7)
	tx := s.signedTransfer(t, key, 50)
	raw, err := omniverse.Encode(tx)
	require.NoError(t, err)
	owner := omniverse.LocalAddressFromPublicKey(key.PubKey())

	req := convertToLocalRequest{RawTx: raw, PublicKey: omniverse.RawPublicKey(key.PubKey())}
	status, resp := doRequest[inboundRecord](t, s, http.MethodPost, "/v1/transformer/local", req)
	require.Equal(t, http.StatusOK, status, resp.Error)
	assert.Equal(t, "100", resp.Result.AmountOwed)
	assert.Equal(t, owner, resp.Result.Owner)
	txId := resp.Result.TxId

	t.Run("duplicated", func(t *testing.T) {
		status, resp := doRequest[inboundRecord](t, s, http.MethodPost, "/v1/transformer/local", req)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "transaction_duplicated", resp.Code)
	})

	t.Run("not enough local token", func(t *testing.T) {
		status, resp := doRequest[settledClaim](t, s, http.MethodPost, "/v1/transformer/claims/"+txId.Hex(), nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "not_enough_local_token", resp.Code)
	})

	t.Run("inbound records", func(t *testing.T) {
		status, resp := doRequest[getRecordsResult[inboundRecord]](t, s, http.MethodGet, "/v1/transformer/records/inbound/"+owner.Hex(), nil)
		require.Equal(t, http.StatusOK, status)
		assert.EqualValues(t, 1, resp.Result.Total)
		require.Len(t, resp.Result.List, 1)
		assert.Equal(t, txId, resp.Result.List[0].TxId)
	})

	require.NoError(t, s.ledger.Mint(context.Background(), transformerLocal, uint128.From64(100)))
	status, claim := doRequest[settledClaim](t, s, http.MethodPost, "/v1/transformer/claims/"+txId.Hex(), nil)
	require.Equal(t, http.StatusOK, status, claim.Error)
	assert.Equal(t, "100", claim.Result.Amount)

	balance, err := s.ledger.BalanceOf(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(100), balance)

	status, resp = doRequest[inboundRecord](t, s, http.MethodPost, "/v1/transformer/claims/"+txId.Hex(), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "record_not_found", resp.Code)
}

func TestConvertToLocalWithJSONTransfer(t *testing.T) {
	s := newTestServer(t)
	key := newKey(8)
	tx := s.signedTransfer(t, key, 10)

	req := map[string]any{
		"tx":        mapTransfer(tx),
		"publicKey": hexutil.Bytes(key.PubKey().SerializeCompressed()),
	}
	status, resp := doRequest[inboundRecord](t, s, http.MethodPost, "/v1/transformer/local", req)
	require.Equal(t, http.StatusOK, status, resp.Error)
	assert.Equal(t, "20", resp.Result.AmountOwed)
	assert.Equal(t, "10", resp.Result.OmniverseAmount)
}

func TestConvertToLocalErrors(t *testing.T) {
	s := newTestServer(t)
	key := newKey(9)
	tx := s.signedTransfer(t, key, 10)
	raw, err := omniverse.Encode(tx)
	require.NoError(t, err)

	testCases := []struct {
		name string
		req  convertToLocalRequest
		code string
	}{
		{
			name: "public key of another sender",
			req:  convertToLocalRequest{RawTx: raw, PublicKey: omniverse.RawPublicKey(newKey(10).PubKey())},
			code: "public_key_not_match",
		},
		{
			name: "missing transfer",
			req:  convertToLocalRequest{PublicKey: omniverse.RawPublicKey(key.PubKey())},
		},
		{
			name: "malformed raw transfer",
			req:  convertToLocalRequest{RawTx: []byte{0x01}, PublicKey: omniverse.RawPublicKey(key.PubKey())},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, resp := doRequest[inboundRecord](t, s, http.MethodPost, "/v1/transformer/local", tc.req)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.NotEmpty(t, resp.Error)
			if tc.code != "" {
				assert.Equal(t, tc.code, resp.Code)
			}
		})
	}
}

func TestConvertToOmniverse(t *testing.T) {
	s := newTestServer(t)
	s.addLiquidity(t, tokenAssetId, "30", "40")
	s.fund(t, caller, 1000)

	t.Run("no unsigned tx yet", func(t *testing.T) {
		status, resp := doRequest[outboundRecord](t, s, http.MethodGet, "/v1/transformer/unsigned-tx", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "not_found", resp.Code)
	})

	recipient := omniverse.Address{0x0e}
	req := s.outboundRequest(t, callerKey, recipient, 50)
	status, resp := doRequest[outboundRecord](t, s, http.MethodPost, "/v1/transformer/omniverse", req)
	require.Equal(t, http.StatusOK, status, resp.Error)
	assert.Equal(t, "100", resp.Result.LocalAmount)
	assert.Equal(t, uint64(0), resp.Result.TxIndex)
	assert.NotEmpty(t, resp.Result.RawUnsignedTx)

	decoded, err := omniverse.Decode(resp.Result.RawUnsignedTx)
	require.NoError(t, err)
	txId, err := decoded.TxId()
	require.NoError(t, err)
	assert.Equal(t, resp.Result.TxId, txId)

	status, unsigned := doRequest[outboundRecord](t, s, http.MethodGet, "/v1/transformer/unsigned-tx", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, resp.Result.TxId, unsigned.Result.TxId)

	status, records := doRequest[getRecordsResult[outboundRecord]](t, s, http.MethodGet, "/v1/transformer/records/outbound/"+caller.Hex()+"?limit=10", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, records.Result.Total)

	t.Run("replayed request", func(t *testing.T) {
		status, resp := doRequest[outboundRecord](t, s, http.MethodPost, "/v1/transformer/omniverse", req)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "invalid_nonce", resp.Code)
	})

	t.Run("insufficient liquidity", func(t *testing.T) {
		req := s.outboundRequest(t, callerKey, recipient, 100)
		status, resp := doRequest[outboundRecord](t, s, http.MethodPost, "/v1/transformer/omniverse", req)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "insufficient_liquidity", resp.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		req := convertToOmniverseRequest{Caller: "0x1", Recipient: recipient.Hex(), Amount: "-1"}
		status, resp := doRequest[outboundRecord](t, s, http.MethodPost, "/v1/transformer/omniverse", req)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, resp.Error, "validation error")
	})
}

func TestConvertToOmniverseForeignCaller(t *testing.T) {
	s := newTestServer(t)
	s.addLiquidity(t, tokenAssetId, "500")
	victimKey := newKey(0x44)
	victim := omniverse.LocalAddressFromPublicKey(victimKey.PubKey())
	s.fund(t, victim, 1000)

	// the attacker names the victim as caller but can only sign with its own key
	req := s.outboundRequest(t, newKey(0x45), omniverse.Address{0x0a}, 500)
	req.Caller = victim.Hex()
	status, resp := doRequest[outboundRecord](t, s, http.MethodPost, "/v1/transformer/omniverse", req)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized_caller", resp.Code)

	balance, err := s.ledger.BalanceOf(context.Background(), victim)
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(1000), balance)

	t.Run("missing signature", func(t *testing.T) {
		req := convertToOmniverseRequest{Caller: victim.Hex(), Recipient: omniverse.Address{0x0a}.Hex(), Amount: "500"}
		status, resp := doRequest[outboundRecord](t, s, http.MethodPost, "/v1/transformer/omniverse", req)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, resp.Error, "'signature' is required")
	})
}

func TestConvertToOmniverseWithFee(t *testing.T) {
	s := newTestServer(t, func(identity *config.Identity) {
		identity.FeeAmount = uint128.From64(5)
	})
	s.addLiquidity(t, tokenAssetId, "30", "40")
	s.addLiquidity(t, feeAssetId, "3", "4")
	s.fund(t, caller, 1000)

	status, utxos := doRequest[[]utxo](t, s, http.MethodGet, "/v1/transformer/utxos?assetId="+feeAssetId.Hex(), nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, *utxos.Result, 2)
	assert.Equal(t, feeAssetId, (*utxos.Result)[0].AssetId)

	req := s.outboundRequest(t, callerKey, omniverse.Address{0x0e}, 50)
	status, resp := doRequest[outboundRecord](t, s, http.MethodPost, "/v1/transformer/omniverse", req)
	require.Equal(t, http.StatusOK, status, resp.Error)

	decoded, err := omniverse.Decode(resp.Result.RawUnsignedTx)
	require.NoError(t, err)
	require.Len(t, decoded.FeeInputs, 2)
	require.Len(t, decoded.FeeOutputs, 2)
	assert.Equal(t, uint128.From64(5), decoded.FeeOutputs[0].Amount)
	assert.Equal(t, uint128.From64(2), decoded.FeeOutputs[1].Amount)

	status, utxos = doRequest[[]utxo](t, s, http.MethodGet, "/v1/transformer/utxos?assetId="+feeAssetId.Hex(), nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, *utxos.Result, 1)
	assert.Equal(t, "2", (*utxos.Result)[0].Amount)
}

func TestAddUTXOsRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	req := addUTXOsRequest{UTXOs: []newUTXO{{AssetId: &tokenAssetId, TxId: common.HexToHash("0xabcd"), Amount: "10"}}}

	testCases := []struct {
		name    string
		headers map[string]string
	}{
		{name: "no token"},
		{name: "wrong token", headers: map[string]string{fiber.HeaderAuthorization: "Bearer nope"}},
		{name: "wrong scheme", headers: map[string]string{fiber.HeaderAuthorization: "Basic " + adminToken}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, resp := doRequestWithHeaders[addUTXOsResult](t, s, http.MethodPost, "/v1/transformer/utxos", req, tc.headers)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "unauthorized", resp.Code)
		})
	}

	t.Run("missing asset id", func(t *testing.T) {
		req := addUTXOsRequest{UTXOs: []newUTXO{{TxId: common.HexToHash("0xabcd"), Amount: "10"}}}
		status, resp := doRequestWithHeaders[addUTXOsResult](t, s, http.MethodPost, "/v1/transformer/utxos", req, map[string]string{
			fiber.HeaderAuthorization: "Bearer " + adminToken,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, resp.Error, "'utxos[0].assetId' is required")
	})

	status, utxos := doRequest[[]utxo](t, s, http.MethodGet, "/v1/transformer/utxos", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, *utxos.Result)
}

func TestAddUTXOsDisabledWithoutAdminToken(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errorhandler.NewHTTPErrorHandler()})
	require.NoError(t, New(nil, "").Mount(app))

	req := httptest.NewRequest(http.MethodPost, "/v1/transformer/utxos", bytes.NewReader([]byte(`{}`)))
	req.Header.Set(fiber.HeaderAuthorization, "Bearer ")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	// only GET is routed
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestGetRecordsValidation(t *testing.T) {
	s := newTestServer(t)
	status, _ := doRequest[getRecordsResult[inboundRecord]](t, s, http.MethodGet, "/v1/transformer/records/inbound/"+caller.Hex()+"?limit=1000", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest[getRecordsResult[inboundRecord]](t, s, http.MethodGet, "/v1/transformer/records/inbound/nope", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
