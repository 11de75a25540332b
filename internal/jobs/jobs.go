package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tradementor/internal/models/db_models"
	"tradementor/internal/repositories"
	"tradementor/internal/services"
	"tradementor/pkg/utils"
)

// Customers soft-deleted longer than this are physically purged.
const purgeRetention = 30 * 24 * time.Hour

// RecurringPaymentJob charges every subscription due today. The long
// LockAtLeast keeps a second instance from re-running the sweep within
// the same day even with clock skew.
func RecurringPaymentJob(billing services.BillingService, logger *zap.Logger) Job {
	return Job{
		Name:        "recurring-payment",
		Spec:        "0 0 * * *",
		LockAtLeast: 23 * time.Hour,
		LockAtMost:  30 * time.Minute,
		Run: func(ctx context.Context) error {
			charged, err := billing.ProcessRecurringPayments(ctx)
			if err != nil {
				return err
			}
			logger.Info("recurring payment sweep done", zap.Int("charged", charged))
			return nil
		},
	}
}

// MembershipExpiryJob downgrades premium members whose paid period has
// lapsed.
func MembershipExpiryJob(customerRepo repositories.ICustomerRepository, logger *zap.Logger) Job {
	return Job{
		Name:        "membership-expiry",
		Spec:        "0 0 * * *",
		LockAtLeast: 23 * time.Hour,
		LockAtMost:  30 * time.Minute,
		Run: func(ctx context.Context) error {
			expired, err := customerRepo.FindExpiredPremium(ctx, utils.NowUnixSeconds())
			if err != nil {
				return err
			}
			if len(expired) == 0 {
				return nil
			}
			for i := range expired {
				expired[i].ExpireMembership()
			}
			if err := customerRepo.SaveAll(ctx, expired); err != nil {
				return err
			}
			logger.Info("memberships expired", zap.Int("count", len(expired)))
			return nil
		},
	}
}

// CourseStatusJob moves customers pending course completion to the
// completed state on the first of each month.
func CourseStatusJob(customerRepo repositories.ICustomerRepository, logger *zap.Logger) Job {
	return Job{
		Name:        "course-status",
		Spec:        "0 1 1 * *",
		LockAtLeast: time.Minute,
		LockAtMost:  10 * time.Minute,
		Run: func(ctx context.Context) error {
			pending, err := customerRepo.ListByCourseStatus(ctx, db_models.CoursePendingCompletion)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				return nil
			}
			for i := range pending {
				pending[i].CourseStatus = db_models.CourseAfterCompletion
			}
			if err := customerRepo.SaveAll(ctx, pending); err != nil {
				return err
			}
			logger.Info("course statuses rolled over", zap.Int("count", len(pending)))
			return nil
		},
	}
}

// CustomerPurgeJob physically removes accounts soft-deleted more than
// the retention period ago.
func CustomerPurgeJob(customerRepo repositories.ICustomerRepository, logger *zap.Logger) Job {
	return Job{
		Name:        "customer-purge",
		Spec:        "0 3 * * *",
		LockAtLeast: time.Minute,
		LockAtMost:  10 * time.Minute,
		Run: func(ctx context.Context) error {
			threshold := utils.NowKST().Add(-purgeRetention)
			purged, err := customerRepo.PurgeDeletedBefore(ctx, threshold)
			if err != nil {
				return err
			}
			if purged > 0 {
				logger.Info("deleted customers purged", zap.Int64("count", purged))
			}
			return nil
		},
	}
}
