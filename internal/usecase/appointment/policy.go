package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

// BookingPolicy holds the clinic rules that sit above the slot grid.
type BookingPolicy struct {
	// HorizonDays is how many days, today included, are open for booking.
	// Zero or less means no limit.
	HorizonDays int

	// ClosesAt stops same-day booking once the clinic clock reaches it.
	ClosesAt  schedule.TimeOfDay
	HasCutoff bool

	// AllowUnknownOccupancy shows the bare grid when the store cannot
	// report occupied times.
	AllowUnknownOccupancy bool
}

func (p BookingPolicy) InHorizon(today, date schedule.Date) bool {
	n := today.DaysUntil(date)
	if n < 0 {
		return false
	}
	return p.HorizonDays <= 0 || n < p.HorizonDays
}

// PastCutoff reports whether same-day booking is already closed at now.
func (p BookingPolicy) PastCutoff(now time.Time) bool {
	return p.HasCutoff && schedule.TimeOfDayOf(now) >= p.ClosesAt
}

// SlotClaimer serialises concurrent booking attempts for one slot across
// replicas. It narrows the race, the store still decides.
type SlotClaimer interface {
	Claim(ctx context.Context, doctorID uint, date schedule.Date, label schedule.SlotLabel) (string, error)
	Release(ctx context.Context, doctorID uint, date schedule.Date, label schedule.SlotLabel, token string) error
}
