// Package jobs runs the scheduled maintenance work: the daily billing
// sweep, membership expiry, course status rollover and customer purge.
// Every job runs under a cluster-wide lease lock so that only one
// instance executes it per period.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tradementor/pkg/lock"
)

// Job is a scheduled unit of work. LockAtLeast keeps the lease alive
// after a fast run so other instances with skewed clocks cannot rerun
// the job within its period; LockAtMost bounds how long a crashed
// holder can block the next run.
type Job struct {
	Name        string
	Spec        string
	LockAtLeast time.Duration
	LockAtMost  time.Duration
	Run         func(ctx context.Context) error
}

type Scheduler struct {
	cron   *cron.Cron
	locker lock.Locker
	logger *zap.Logger
}

func NewScheduler(locker lock.Locker, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.FixedZone("KST", 9*60*60))),
		locker: locker,
		logger: logger,
	}
}

func (s *Scheduler) Register(job Job) error {
	_, err := s.cron.AddFunc(job.Spec, func() {
		s.runLocked(job)
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runLocked(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), job.LockAtMost)
	defer cancel()

	lease, acquired, err := s.locker.Acquire(ctx, job.Name, job.LockAtMost)
	if err != nil {
		s.logger.Error("scheduled job lock error",
			zap.String("job", job.Name), zap.Error(err))
		return
	}
	if !acquired {
		s.logger.Debug("scheduled job skipped, lock held elsewhere",
			zap.String("job", job.Name))
		return
	}
	defer func() {
		if err := lease.Release(context.Background(), job.LockAtLeast); err != nil {
			s.logger.Warn("scheduled job lock release failed",
				zap.String("job", job.Name), zap.Error(err))
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled job panicked",
				zap.String("job", job.Name), zap.Any("panic", r))
		}
	}()

	start := time.Now()
	s.logger.Info("scheduled job started", zap.String("job", job.Name))

	if err := job.Run(ctx); err != nil {
		s.logger.Error("scheduled job failed",
			zap.String("job", job.Name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return
	}

	s.logger.Info("scheduled job finished",
		zap.String("job", job.Name),
		zap.Duration("elapsed", time.Since(start)))
}
