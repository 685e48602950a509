package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	sweepLockKey = "lock:overdue-sweep"
	sweepLockTTL = 2 * time.Minute
	sweepTimeout = 90 * time.Second
)

type Sweeper interface {
	SweepOverdue(ctx context.Context) (int64, error)
}

// OverdueJob runs the overdue sweep. With a locker, only the replica holding
// the redis lock sweeps; the others skip the tick.
type OverdueJob struct {
	sweeper Sweeper
	locker  *redislock.Client
	log     *logrus.Logger
}

func NewOverdueJob(s Sweeper, locker *redislock.Client, log *logrus.Logger) *OverdueJob {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &OverdueJob{sweeper: s, locker: locker, log: log}
}

// Run performs one sweep and reports how many transactions changed. A tick
// skipped because another replica holds the lock returns 0 and no error.
func (j *OverdueJob) Run(ctx context.Context) (int64, error) {
	entry := j.log.WithField("job", "overdue-sweep")

	if j.locker != nil {
		lock, err := j.locker.Obtain(ctx, sweepLockKey, sweepLockTTL, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			entry.Info("sweep already running elsewhere; skipping")
			return 0, nil
		}
		if err != nil {
			entry.WithError(err).Error("could not obtain sweep lock")
			return 0, err
		}
		defer func() {
			if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				entry.WithError(err).Warn("sweep lock release failed")
			}
		}()
	}

	start := time.Now()
	n, err := j.sweeper.SweepOverdue(ctx)
	if err != nil {
		entry.WithError(err).Error("overdue sweep failed")
		return 0, err
	}
	entry.WithFields(logrus.Fields{"changed": n, "took_ms": time.Since(start).Milliseconds()}).Debug("overdue sweep done")
	return n, nil
}

// Start schedules Run on spec (standard 5-field cron) in loc and returns the
// running cron; call Stop on shutdown.
func (j *OverdueJob) Start(spec string, loc *time.Location) (*cron.Cron, error) {
	if loc == nil {
		loc = time.UTC
	}
	logger := cron.PrintfLogger(j.log)
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		_, _ = j.Run(ctx)
	}); err != nil {
		return nil, err
	}
	c.Start()
	j.log.WithFields(logrus.Fields{"schedule": spec, "tz": loc.String()}).Info("overdue sweep scheduled")
	return c, nil
}
