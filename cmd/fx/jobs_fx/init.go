package jobs_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tradementor/internal/jobs"
	"tradementor/internal/repositories"
	"tradementor/internal/services"
	"tradementor/pkg/lock"
)

var Module = fx.Options(
	fx.Provide(provideScheduler),
	fx.Invoke(registerJobs),
)

func provideScheduler(locker lock.Locker, logger *zap.Logger) *jobs.Scheduler {
	return jobs.NewScheduler(locker, logger)
}

func registerJobs(
	lc fx.Lifecycle,
	scheduler *jobs.Scheduler,
	billing services.BillingService,
	customerRepo repositories.ICustomerRepository,
	logger *zap.Logger,
) error {
	all := []jobs.Job{
		jobs.RecurringPaymentJob(billing, logger),
		jobs.MembershipExpiryJob(customerRepo, logger),
		jobs.CourseStatusJob(customerRepo, logger),
		jobs.CustomerPurgeJob(customerRepo, logger),
	}
	for _, job := range all {
		if err := scheduler.Register(job); err != nil {
			return err
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			scheduler.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			<-scheduler.Stop().Done()
			return nil
		},
	})

	return nil
}
