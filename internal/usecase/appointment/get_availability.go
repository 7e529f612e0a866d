package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/observability/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type GetAvailability struct {
	store   domain.Store
	hours   domain.WorkingHours
	policy  BookingPolicy
	clock   timezone.Clock
	log     *logrus.Logger
	metrics *metrics.SchedulerMetrics
}

func NewGetAvailability(
	store domain.Store,
	hours domain.WorkingHours,
	policy BookingPolicy,
	clock timezone.Clock,
	log *logrus.Logger,
	m *metrics.SchedulerMetrics,
) *GetAvailability {
	return &GetAvailability{
		store:   store,
		hours:   hours,
		policy:  policy,
		clock:   clock,
		log:     log,
		metrics: m,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*domain.Availability, error) {

	now := uc.clock()
	today := schedule.DateOf(now)

	// --------------------------------------------------
	// Date range
	// --------------------------------------------------
	if in.Date.Before(today) {
		return nil, httperr.ErrBusiness("date_in_past")
	}
	if !uc.policy.InHorizon(today, in.Date) {
		return nil, httperr.ErrBusiness("outside_horizon")
	}

	res := &domain.Availability{
		DoctorID:  in.DoctorID,
		Date:      in.Date,
		Available: []schedule.SlotLabel{},
		Occupied:  []schedule.SlotLabel{},
	}

	entry := uc.log.WithFields(logrus.Fields{
		"doctor_id": in.DoctorID,
		"date":      in.Date.String(),
	})

	if uc.hours.IsClosed(in.Date) || (in.Date == today && uc.policy.PastCutoff(now)) {
		res.Reason = domain.ReasonClosed
		entry.Debug("clinic closed for booking on this date")
		uc.metrics.ObserveSlotQuery(string(domain.ReasonClosed))
		return res, nil
	}

	// --------------------------------------------------
	// Grid
	// --------------------------------------------------
	grid, err := uc.hours.Grid(in.DoctorID, in.Date, now)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		res.Reason = domain.ReasonNoSlots
		entry.Info("no slots in working window")
		uc.metrics.ObserveSlotQuery(string(domain.ReasonNoSlots))
		return res, nil
	}

	// --------------------------------------------------
	// Occupancy
	// --------------------------------------------------
	occupied, err := loadOccupied(ctx, uc.store, uc.log, uc.metrics, in.DoctorID, in.Date)
	if err != nil {
		if !uc.policy.AllowUnknownOccupancy {
			uc.metrics.ObserveSlotQuery("upstream_unavailable")
			return nil, err
		}
		entry.WithError(err).Warn("occupancy unknown, showing full grid")
		occupied = schedule.NewOccupiedSet()
		res.Degraded = true
	}

	res.Available, res.Occupied = schedule.Partition(grid, occupied)
	if len(res.Available) == 0 {
		res.Reason = domain.ReasonFullyBooked
		entry.WithField("slots", len(grid)).Info("all slots booked")
		uc.metrics.ObserveSlotQuery(string(domain.ReasonFullyBooked))
		return res, nil
	}

	if res.Degraded {
		uc.metrics.ObserveSlotQuery("degraded")
	} else {
		uc.metrics.ObserveSlotQuery("open")
	}
	return res, nil
}

// loadOccupied fetches and normalizes the doctor's occupied times. Entries
// that are not clock times are dropped and counted.
func loadOccupied(
	ctx context.Context,
	store domain.Store,
	log *logrus.Logger,
	m *metrics.SchedulerMetrics,
	doctorID uint,
	date schedule.Date,
) (schedule.OccupiedSet, error) {

	raw, err := store.OccupiedTimes(ctx, doctorID, date)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	return schedule.OccupiedFromRaw(raw, func(value string, err error) {
		m.ObserveMalformedLabel()
		log.WithFields(logrus.Fields{
			"doctor_id": doctorID,
			"date":      date.String(),
			"value":     value,
		}).WithError(err).Warn("dropping malformed occupied time")
	}), nil
}
