package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/slot-booking/internal/lock"
	"github.com/BruksfildServices01/slot-booking/internal/logging"
	"github.com/BruksfildServices01/slot-booking/internal/usecase/booking"
)

const SweepLockKey = "slot-booking:sweeper"

type Sweeper interface {
	Execute(ctx context.Context, now time.Time) (booking.SweepResult, error)
}

// SweepRunner runs the stale-reservation sweep once or on an interval.
// With a locker, a run only proceeds while holding the shared lease.
type SweepRunner struct {
	sweep    Sweeper
	locker   *lock.Locker
	lockTTL  time.Duration
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewSweepRunner(
	sweep Sweeper,
	locker *lock.Locker,
	lockTTL time.Duration,
	interval time.Duration,
	logger *zap.Logger,
) *SweepRunner {
	return &SweepRunner{
		sweep:    sweep,
		locker:   locker,
		lockTTL:  lockTTL,
		interval: interval,
		logger:   logging.OrNop(logger),
		now:      time.Now,
	}
}

// RunOnce reports whether the sweep ran (false when another instance holds
// the lease).
func (r *SweepRunner) RunOnce(ctx context.Context) (bool, error) {
	if r.locker != nil {
		lease, ok, err := r.locker.TryAcquire(ctx, SweepLockKey, r.lockTTL)
		if err != nil {
			return false, err
		}
		if !ok {
			r.logger.Info("sweep skipped, lease held elsewhere")
			return false, nil
		}
		defer func() {
			if err := lease.Release(context.Background()); err != nil && !errors.Is(err, lock.ErrNotHeld) {
				r.logger.Warn("sweep lease release failed", zap.Error(err))
			}
		}()
	}

	start := r.now()
	res, err := r.sweep.Execute(ctx, start.UTC())
	if err != nil {
		return true, err
	}

	r.logger.Info("sweep finished",
		zap.Int("scanned", res.Scanned),
		zap.Int("canceled", res.Canceled),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
		zap.Int("slots_released", res.SlotsReleased),
		zap.Duration("took", r.now().Sub(start)),
	)
	return true, nil
}

// Run sweeps immediately, then every interval until ctx is done. A zero
// interval sweeps once.
func (r *SweepRunner) Run(ctx context.Context) error {
	if _, err := r.RunOnce(ctx); err != nil {
		if r.interval <= 0 {
			return err
		}
		r.logger.Error("sweep failed", zap.Error(err))
	}
	if r.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				r.logger.Error("sweep failed", zap.Error(err))
			}
		}
	}
}
