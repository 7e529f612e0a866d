package schedule

import (
	"fmt"
	"time"
)

// SlotDuration is the length of one appointment in minutes.
type SlotDuration int

func (d SlotDuration) Validate() error {
	if d <= 0 {
		return fmt.Errorf("%w: %d minutes", ErrInvalidDuration, int(d))
	}
	return nil
}

// WorkingWindow describes one doctor's daily grid. A window whose lunch
// bounds are both 00:00 has no lunch break.
type WorkingWindow struct {
	Start      TimeOfDay
	End        TimeOfDay
	LunchStart TimeOfDay
	LunchEnd   TimeOfDay
}

func (w WorkingWindow) HasLunch() bool {
	return !(w.LunchStart == 0 && w.LunchEnd == 0)
}

// Validate enforces Start <= LunchStart <= LunchEnd <= End. It is run once
// when configuration is loaded.
func (w WorkingWindow) Validate() error {
	for _, t := range []TimeOfDay{w.Start, w.End, w.LunchStart, w.LunchEnd} {
		if !t.Valid() {
			return fmt.Errorf("%w: time out of range", ErrInvalidWindow)
		}
	}

	if w.Start > w.End {
		return fmt.Errorf("%w: start %s after end %s", ErrInvalidWindow, w.Start, w.End)
	}

	if !w.HasLunch() {
		return nil
	}

	if w.LunchStart > w.LunchEnd {
		return fmt.Errorf("%w: lunch start %s after lunch end %s", ErrInvalidWindow, w.LunchStart, w.LunchEnd)
	}
	if w.LunchStart < w.Start || w.LunchEnd > w.End {
		return fmt.Errorf("%w: lunch %s-%s outside %s-%s", ErrInvalidWindow, w.LunchStart, w.LunchEnd, w.Start, w.End)
	}

	return nil
}

// inLunch uses a half-open interval: a slot at LunchStart is excluded, a
// slot at LunchEnd is offered.
func (w WorkingWindow) inLunch(t TimeOfDay) bool {
	return w.LunchStart <= t && t < w.LunchEnd
}

// Generate returns the ordered slot labels of window on target.
//
// When target is the calendar date of now, slots whose start is at or
// before now's minute-of-day are dropped. now is compared in its own
// location, so callers pass it already converted to the clinic timezone.
//
// An empty result is a valid "no slots" answer. Only a structurally
// malformed window or duration is an error.
func Generate(
	window WorkingWindow,
	duration SlotDuration,
	target Date,
	now time.Time,
) ([]SlotLabel, error) {

	if err := duration.Validate(); err != nil {
		return nil, err
	}
	if window.Start > window.End {
		return nil, fmt.Errorf("%w: start %s after end %s", ErrInvalidWindow, window.Start, window.End)
	}

	sameDay := DateOf(now) == target
	cutoff := TimeOfDayOf(now)

	slots := make([]SlotLabel, 0, int(window.End-window.Start)/int(duration)+1)

	for cursor := window.Start; cursor < window.End; cursor += TimeOfDay(duration) {
		if window.inLunch(cursor) {
			continue
		}
		if sameDay && cursor <= cutoff {
			continue
		}
		slots = append(slots, cursor.Label())
	}

	return slots, nil
}
