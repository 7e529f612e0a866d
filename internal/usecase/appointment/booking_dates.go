package appointment

import (
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

const defaultHorizonDays = 7

// BookingDates lists the dates a patient may pick for a doctor: the booking
// horizon starting today, minus closed days. Today is left out once
// same-day booking has closed or no slot remains.
type BookingDates struct {
	hours  domain.WorkingHours
	policy BookingPolicy
	clock  timezone.Clock
}

func NewBookingDates(
	hours domain.WorkingHours,
	policy BookingPolicy,
	clock timezone.Clock,
) *BookingDates {
	return &BookingDates{
		hours:  hours,
		policy: policy,
		clock:  clock,
	}
}

func (uc *BookingDates) Execute(doctorID uint) ([]schedule.Date, error) {
	now := uc.clock()
	today := schedule.DateOf(now)

	days := uc.policy.HorizonDays
	if days <= 0 {
		days = defaultHorizonDays
	}

	out := make([]schedule.Date, 0, days)
	for i := 0; i < days; i++ {
		d := today.AddDays(i)
		if uc.hours.IsClosed(d) {
			continue
		}
		if i == 0 {
			if uc.policy.PastCutoff(now) {
				continue
			}
			grid, err := uc.hours.Grid(doctorID, d, now)
			if err != nil {
				return nil, err
			}
			if len(grid) == 0 {
				continue
			}
		}
		out = append(out, d)
	}
	return out, nil
}
