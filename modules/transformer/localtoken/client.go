package localtoken

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/pkg/httpclient"
	"github.com/gaze-network/uint128"
	"github.com/samber/lo"
)

const (
	codeInsufficientAllowance = "insufficient_allowance"
	codeInsufficientBalance   = "insufficient_balance"
)

var _ Ledger = (*Client)(nil)

// Client talks to a token ledger service over REST.
type Client struct {
	httpClient *httpclient.Client
}

func NewClient(httpClient *httpclient.Client) *Client {
	return &Client{
		httpClient: httpClient,
	}
}

type response[T any] struct {
	Error  *string `json:"error"`
	Code   string  `json:"code,omitempty"`
	Result *T      `json:"result,omitempty"`
}

// amounts are decimal strings on the wire.
type balanceResult struct {
	Balance string `json:"balance"`
}

type transferRequest struct {
	From   common.Address `json:"from"`
	To     common.Address `json:"to"`
	Amount string         `json:"amount"`
	// Reference makes the service apply the transfer once, see Ledger.Pay.
	Reference *common.Hash `json:"reference,omitempty"`
}

type transferResult struct {
	// Available is the balance or allowance that was found insufficient.
	Available string `json:"available"`
}

func parseAmount(s string) uint128.Uint128 {
	amount, err := uint128.FromString(s)
	if err != nil {
		return uint128.Zero
	}
	return amount
}

func (c *Client) BalanceOf(ctx context.Context, owner common.Address) (uint128.Uint128, error) {
	resp, err := c.httpClient.Get(ctx, "/v1/balances/"+owner.Hex(), httpclient.RequestOptions{})
	if err != nil {
		return uint128.Zero, errors.Wrap(err, "can't send request")
	}
	var body response[balanceResult]
	if err := resp.UnmarshalBody(&body); err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	if !resp.IsSuccess() || body.Result == nil {
		return uint128.Zero, errors.Errorf("balance request failed with status %d: %s", resp.StatusCode(), lo.FromPtr(body.Error))
	}
	balance, err := uint128.FromString(body.Result.Balance)
	if err != nil {
		return uint128.Zero, errors.Wrapf(err, "invalid balance %q", body.Result.Balance)
	}
	return balance, nil
}

func (c *Client) Transfer(ctx context.Context, from, to common.Address, amount uint128.Uint128) error {
	return c.transfer(ctx, "/v1/transfers", from, to, amount, nil)
}

// Pay relies on the service answering a repeated reference with success.
func (c *Client) Pay(ctx context.Context, reference common.Hash, from, to common.Address, amount uint128.Uint128) error {
	return c.transfer(ctx, "/v1/transfers", from, to, amount, &reference)
}

func (c *Client) TransferFrom(ctx context.Context, from, to common.Address, amount uint128.Uint128) error {
	return c.transfer(ctx, "/v1/transfers/delegated", from, to, amount, nil)
}

func (c *Client) transfer(ctx context.Context, path string, from, to common.Address, amount uint128.Uint128, reference *common.Hash) error {
	reqBody, err := json.Marshal(transferRequest{From: from, To: to, Amount: amount.String(), Reference: reference})
	if err != nil {
		return errors.Wrap(err, "can't marshal payload")
	}
	resp, err := c.httpClient.Post(ctx, path, httpclient.RequestOptions{
		Body: reqBody,
	})
	if err != nil {
		return errors.Wrap(err, "can't send request")
	}
	if resp.IsSuccess() {
		return nil
	}

	var body response[transferResult]
	if err := resp.UnmarshalBody(&body); err != nil {
		return errors.Wrapf(err, "transfer failed with status %d", resp.StatusCode())
	}
	available := parseAmount(lo.FromPtr(body.Result).Available)
	switch body.Code {
	case codeInsufficientAllowance:
		return errors.WithStack(&InsufficientAllowanceError{
			Spender:   to,
			Allowance: available,
			Needed:    amount,
		})
	case codeInsufficientBalance:
		return errors.WithStack(&InsufficientBalanceError{
			Sender:  from,
			Balance: available,
			Needed:  amount,
		})
	}
	return errors.Errorf("transfer failed with status %d: %s", resp.StatusCode(), lo.FromPtr(body.Error))
}
