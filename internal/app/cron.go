package app

import (
	"context"
	"fmt"
	"time"

	"github.com/aerovista/core/internal/modules/visitor"
	pkgcron "github.com/aerovista/core/internal/pkg/cron"
	"go.uber.org/zap"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, visitors *visitor.Service, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	sched.Register(pkgcron.Job{
		Name:        "deactivate_stale_sessions",
		Description: "mark sessions idle past the activity window as inactive",
		Interval:    5 * time.Minute,
		Fn: func(ctx context.Context) error {
			n, err := visitors.DeactivateStale()
			if err != nil {
				cronLogger.Warn("session deactivation failed", zap.Error(err))
				return err
			}
			if n > 0 {
				cronLogger.Info(fmt.Sprintf("deactivated %d stale sessions", n))
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "purge_old_sessions",
		Description: "delete visitor sessions past the retention period",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := visitors.PurgeOld()
			if err != nil {
				cronLogger.Warn("session purge failed", zap.Error(err))
				return err
			}
			cronLogger.Info(fmt.Sprintf("purged %d expired sessions", n))
			return nil
		},
	})
}
