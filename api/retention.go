/*
retention.go - Saved schedule retention job

PURPOSE:
  Saved schedules are planning snapshots, not records. The retention job
  periodically purges schedules older than the configured age.

DESIGN:
  - Runs on a cron schedule (robfig/cron, standard 5-field spec or
    descriptors such as "@daily")
  - Each run deletes schedules whose CreatedAt is before now - MaxAge
  - A MaxAge of zero disables the job

CONFIGURATION:
  - RETENTION_DAYS: Maximum age in days (default: 30)
  - RETENTION_CRON: When to run (default: "@daily")

USAGE:
  job := NewRetentionJob(store, 30, "@daily", logger)
  if err := job.Start(); err != nil { ... }
  // ... later
  job.Stop()

SEE ALSO:
  - generic/store.go: ScheduleStore.PurgeBefore
  - cmd/server/main.go: Starts and stops the job with the server
*/
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/warp/leave-planner/generic"
)

// RetentionJob purges old saved schedules on a cron schedule.
type RetentionJob struct {
	Store  generic.ScheduleStore
	Log    *logrus.Logger
	MaxAge time.Duration
	Spec   string

	now   func() time.Time
	cron  *cron.Cron
	entry cron.EntryID
	mu    sync.Mutex
}

// NewRetentionJob creates a job keeping schedules for days days.
func NewRetentionJob(store generic.ScheduleStore, days int, spec string, log *logrus.Logger) *RetentionJob {
	return &RetentionJob{
		Store:  store,
		Log:    log,
		MaxAge: time.Duration(days) * 24 * time.Hour,
		Spec:   spec,
		now:    time.Now,
	}
}

// Start schedules the job. It fails on an invalid cron spec.
func (rj *RetentionJob) Start() error {
	rj.mu.Lock()
	defer rj.mu.Unlock()

	if rj.MaxAge <= 0 {
		rj.Log.Info("retention disabled, not starting")
		return nil
	}
	if rj.cron != nil {
		return nil
	}

	c := cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(rj.Log))))
	id, err := c.AddFunc(rj.Spec, func() {
		if _, err := rj.RunNow(context.Background()); err != nil {
			rj.Log.WithError(err).Error("retention run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", rj.Spec, err)
	}

	rj.cron = c
	rj.entry = id
	c.Start()

	rj.Log.WithFields(logrus.Fields{
		"schedule": rj.Spec,
		"max_age":  rj.MaxAge.String(),
		"next_run": c.Entry(id).Next.Format(time.RFC3339),
	}).Info("retention job started")
	return nil
}

// Stop stops the job and waits for a running purge to finish.
func (rj *RetentionJob) Stop() {
	rj.mu.Lock()
	defer rj.mu.Unlock()

	if rj.cron == nil {
		return
	}
	<-rj.cron.Stop().Done()
	rj.cron = nil
	rj.Log.Info("retention job stopped")
}

// RunNow purges immediately and reports how many schedules were removed.
func (rj *RetentionJob) RunNow(ctx context.Context) (int, error) {
	cutoff := generic.TimePoint{Time: rj.now().UTC().Add(-rj.MaxAge), Granularity: generic.GranularityHour}

	n, err := rj.Store.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	rj.Log.WithFields(logrus.Fields{
		"cutoff": cutoff.Time.Format(time.RFC3339),
		"purged": n,
	}).Info("retention run completed")
	return n, nil
}

// NextRun returns the next scheduled run, or the zero time when stopped.
func (rj *RetentionJob) NextRun() time.Time {
	rj.mu.Lock()
	defer rj.mu.Unlock()

	if rj.cron == nil {
		return time.Time{}
	}
	return rj.cron.Entry(rj.entry).Next
}
