package statekeeper

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gaze-network/omniverse-transformer/pkg/httpclient"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
	"github.com/samber/lo"
)

var _ Oracle = (*Client)(nil)

// Client queries a state keeper service over REST.
type Client struct {
	httpClient *httpclient.Client
}

func NewClient(httpClient *httpclient.Client) *Client {
	return &Client{
		httpClient: httpClient,
	}
}

type inclusionRequest struct {
	TxId omniverse.TxId `json:"txId"`
	Tx   hexutil.Bytes  `json:"tx"`
}

type inclusionResponse struct {
	Error  *string `json:"error"`
	Result *struct {
		Included bool `json:"included"`
	} `json:"result,omitempty"`
}

func (c *Client) IsIncluded(ctx context.Context, tx omniverse.Transfer) (bool, error) {
	encoded, err := omniverse.Encode(tx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	reqBody, err := json.Marshal(inclusionRequest{
		TxId: omniverse.CommitmentHash(encoded),
		Tx:   encoded,
	})
	if err != nil {
		return false, errors.Wrap(err, "can't marshal payload")
	}
	resp, err := c.httpClient.Post(ctx, "/v1/transactions/inclusion", httpclient.RequestOptions{
		Body: reqBody,
	})
	if err != nil {
		return false, errors.Wrap(err, "can't send request")
	}
	var body inclusionResponse
	if err := resp.UnmarshalBody(&body); err != nil {
		return false, errors.WithStack(err)
	}
	if !resp.IsSuccess() || body.Result == nil {
		return false, errors.Errorf("inclusion request failed with status %d: %s", resp.StatusCode(), lo.FromPtr(body.Error))
	}
	return body.Result.Included, nil
}
