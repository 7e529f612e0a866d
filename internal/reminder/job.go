package reminder

import (
	"context"

	"github.com/sirupsen/logrus"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
	"github.com/BruksfildServices01/clinic-scheduler/internal/observability/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

const batchLimit = 500

// Ledger remembers which appointments were already reminded.
type Ledger interface {
	Reserve(ctx context.Context, appointmentID string) (bool, error)
	Forget(ctx context.Context, appointmentID string) error
}

type Result struct {
	Due     int
	Sent    int
	Skipped int
	Failed  int
}

// Job sends one reminder per active appointment dated tomorrow.
type Job struct {
	store    domain.Store
	ledger   Ledger
	notifier notify.Notifier
	clock    timezone.Clock
	log      *logrus.Logger
	metrics  *metrics.SchedulerMetrics
}

func NewJob(
	store domain.Store,
	ledger Ledger,
	notifier notify.Notifier,
	clock timezone.Clock,
	log *logrus.Logger,
	m *metrics.SchedulerMetrics,
) *Job {
	return &Job{
		store:    store,
		ledger:   ledger,
		notifier: notifier,
		clock:    clock,
		log:      log,
		metrics:  m,
	}
}

func (j *Job) Run(ctx context.Context) (Result, error) {
	var res Result

	tomorrow := schedule.DateOf(j.clock()).AddDays(1)
	list, err := j.store.ListAppointments(ctx, domain.ListFilter{
		Status: domain.FilterConfirmed,
		From:   tomorrow,
		To:     tomorrow,
		Limit:  batchLimit,
	})
	if err != nil {
		return res, err
	}

	for _, ap := range list {
		if !ap.Status.Active() || ap.TelegramID == 0 {
			continue
		}
		res.Due++

		entry := j.log.WithFields(logrus.Fields{
			"appointment_id": ap.ID,
			"telegram_id":    ap.TelegramID,
		})

		reserved, err := j.ledger.Reserve(ctx, ap.ID)
		if err != nil {
			res.Failed++
			j.metrics.ObserveReminder("ledger_error")
			entry.WithError(err).Warn("reminder ledger unavailable")
			continue
		}
		if !reserved {
			res.Skipped++
			j.metrics.ObserveReminder("duplicate")
			continue
		}

		if err := j.notifier.Notify(ctx, ap.TelegramID, notify.Reminder(ap)); err != nil {
			res.Failed++
			j.metrics.ObserveReminder("failed")
			entry.WithError(err).Warn("reminder not delivered")
			if ferr := j.ledger.Forget(ctx, ap.ID); ferr != nil {
				entry.WithError(ferr).Warn("reminder ledger release failed")
			}
			continue
		}

		res.Sent++
		j.metrics.ObserveReminder("sent")
	}

	j.log.WithFields(logrus.Fields{
		"date":    tomorrow.String(),
		"due":     res.Due,
		"sent":    res.Sent,
		"skipped": res.Skipped,
		"failed":  res.Failed,
	}).Info("reminder run finished")

	return res, nil
}
