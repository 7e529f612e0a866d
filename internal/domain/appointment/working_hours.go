package appointment

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

// WorkingHours is the clinic schedule book: a default window, per-doctor
// overrides and the days the clinic is closed.
type WorkingHours struct {
	Default   schedule.WorkingWindow
	Overrides map[uint]schedule.WorkingWindow
	Duration  schedule.SlotDuration

	ClosedDays []time.Weekday
}

// WindowFor returns the doctor's own window, or the clinic default.
func (wh WorkingHours) WindowFor(doctorID uint) schedule.WorkingWindow {
	if w, ok := wh.Overrides[doctorID]; ok {
		return w
	}
	return wh.Default
}

func (wh WorkingHours) IsClosed(d schedule.Date) bool {
	wd := d.Weekday()
	for _, c := range wh.ClosedDays {
		if c == wd {
			return true
		}
	}
	return false
}

// Validate checks every window and the slot duration.
func (wh WorkingHours) Validate() error {
	if err := wh.Duration.Validate(); err != nil {
		return err
	}
	if err := wh.Default.Validate(); err != nil {
		return fmt.Errorf("default window: %w", err)
	}
	for id, w := range wh.Overrides {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("doctor %d window: %w", id, err)
		}
	}
	return nil
}

// Grid generates the doctor's slots for date as seen at now.
func (wh WorkingHours) Grid(doctorID uint, date schedule.Date, now time.Time) ([]schedule.SlotLabel, error) {
	return schedule.Generate(wh.WindowFor(doctorID), wh.Duration, date, now)
}
