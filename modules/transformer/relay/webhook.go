package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/pkg/httpclient"
	"github.com/gaze-network/omniverse-transformer/pkg/logger"
	"github.com/gaze-network/omniverse-transformer/pkg/omniverse"
)

var _ Notifier = (*WebhookNotifier)(nil)

// WebhookNotifier posts events to the local entry point.
type WebhookNotifier struct {
	httpClient *httpclient.Client
}

func NewWebhookNotifier(httpClient *httpclient.Client) *WebhookNotifier {
	return &WebhookNotifier{
		httpClient: httpClient,
	}
}

type EventPayload struct {
	Id              string           `json:"id"`
	Type            entity.EventType `json:"type"`
	TxId            omniverse.TxId   `json:"txId"`
	Owner           common.Address   `json:"owner"`
	OmniverseAmount string           `json:"omniverseAmount"`
	LocalAmount     string           `json:"localAmount"`
	UnsignedTx      hexutil.Bytes    `json:"unsignedTx,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}

func NewEventPayload(event entity.Event) (EventPayload, error) {
	payload := EventPayload{
		Id:              event.Id.String(),
		Type:            event.Type,
		TxId:            event.TxId,
		Owner:           event.Owner,
		OmniverseAmount: event.OmniverseAmount.String(),
		LocalAmount:     event.LocalAmount.String(),
		CreatedAt:       event.CreatedAt,
	}
	if event.UnsignedTx != nil {
		encoded, err := omniverse.Encode(*event.UnsignedTx)
		if err != nil {
			return EventPayload{}, errors.WithStack(err)
		}
		payload.UnsignedTx = encoded
	}
	return payload, nil
}

func (w *WebhookNotifier) Notify(ctx context.Context, event entity.Event) error {
	payload, err := NewEventPayload(event)
	if err != nil {
		return errors.Wrap(err, "can't build payload")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "can't marshal payload")
	}
	resp, err := w.httpClient.Post(ctx, "/v1/events", httpclient.RequestOptions{
		Body: body,
	})
	if err != nil {
		return errors.Wrap(err, "can't send request")
	}
	if !resp.IsSuccess() {
		logger.WarnContext(ctx, "Failed to submit transformer event", slog.Any("payload", payload), slog.String("responseBody", string(resp.Body())))
		return errors.Errorf("event submission failed with status %d", resp.StatusCode())
	}
	logger.DebugContext(ctx, "Transformer event submitted", slog.String("event_id", payload.Id))
	return nil
}
