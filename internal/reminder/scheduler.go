package reminder

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const runTimeout = 2 * time.Minute

// Scheduler runs the reminder job on a cron spec in the clinic timezone.
// A run still in progress makes the next tick a no-op.
type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Logger
}

func NewScheduler(spec string, job *Job, loc *time.Location, log *logrus.Logger) (*Scheduler, error) {
	cl := cron.PrintfLogger(log)
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := job.Run(ctx); err != nil {
			log.WithError(err).Error("reminder run failed")
		}
	})
	if err != nil {
		return nil, err
	}

	return &Scheduler{cron: c, log: log}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("reminder scheduler started")
}

// Stop waits for a running job until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("reminder job still running at shutdown")
	}
}
