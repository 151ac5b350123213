// Package relay publishes committed transformer events to the local entry point.
package relay

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/internal/entity"
	"github.com/gaze-network/omniverse-transformer/pkg/logger"
)

type Notifier interface {
	Notify(ctx context.Context, event entity.Event) error
}

var (
	_ Notifier = LogNotifier{}
	_ Notifier = Multi{}
)

// LogNotifier writes events to the context logger at [logger.LevelAudit].
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, event entity.Event) error {
	logger.AuditContext(ctx, "Transformer event",
		slog.String("event_id", event.Id.String()),
		slog.String(logger.EventKey, string(event.Type)),
		slog.String(logger.TxIdKey, event.TxId.Hex()),
		slog.String(logger.OwnerKey, event.Owner.Hex()),
		slog.String("omniverse_amount", event.OmniverseAmount.String()),
		slog.String("local_amount", event.LocalAmount.String()),
	)
	return nil
}

// Multi delivers an event to every notifier and combines their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event entity.Event) error {
	var err error
	for _, n := range m {
		err = errors.CombineErrors(err, n.Notify(ctx, event))
	}
	return err
}
