// Package sweeper periodically pays out pending claims that could not be settled when they were submitted.
package sweeper

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/usecase"
	"github.com/gaze-network/omniverse-transformer/pkg/logger"
	"github.com/gaze-network/omniverse-transformer/pkg/logger/slogx"
	"github.com/go-co-op/gocron"
)

type Claimer interface {
	PendingClaimOwners(ctx context.Context) ([]common.Address, error)
	ClaimAll(ctx context.Context, owner common.Address) (*usecase.ClaimAllResult, error)
}

type Sweeper struct {
	claimer   Claimer
	interval  time.Duration
	scheduler *gocron.Scheduler
}

func New(claimer Claimer, interval time.Duration) *Sweeper {
	return &Sweeper{
		claimer:   claimer,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// Start schedules Sweep every interval. A sweep still running when the next one is due is not overlapped.
func (s *Sweeper) Start(ctx context.Context) error {
	ctx = logger.WithContext(ctx, slogx.String(logger.ModuleKey, "sweeper"))
	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		if err := s.Sweep(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to sweep pending claims", err)
		}
	})
	if err != nil {
		return errors.Wrap(err, "can't schedule sweep job")
	}
	s.scheduler.StartAsync()
	logger.InfoContext(ctx, "Started pending claim sweeper", slogx.Duration("interval", s.interval))
	return nil
}

func (s *Sweeper) Stop() {
	s.scheduler.Stop()
}

// Sweep runs ClaimAll for every owner with pending claims. A failing owner does not stop the others.
func (s *Sweeper) Sweep(ctx context.Context) error {
	owners, err := s.claimer.PendingClaimOwners(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get pending claim owners")
	}

	var errList []error
	for _, owner := range owners {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}
		result, err := s.claimer.ClaimAll(ctx, owner)
		if err != nil {
			errList = append(errList, errors.Wrapf(err, "owner %s", owner))
			continue
		}
		if len(result.Claimed) > 0 || len(result.Skipped) > 0 {
			logger.InfoContext(ctx, "Swept pending claims",
				slogx.Stringer(logger.OwnerKey, owner),
				slogx.Int("claimed", len(result.Claimed)),
				slogx.Int("skipped", len(result.Skipped)),
			)
		}
	}
	return errors.Join(errList...)
}
