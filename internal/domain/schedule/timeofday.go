package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time with minute granularity, stored as
// minutes since midnight. Valid values are 0 <= t < 1440.
type TimeOfDay int

// SlotLabel is the canonical "HH:MM" form of a slot start time.
// Two slots are the same slot iff their labels are byte-equal.
type SlotLabel string

// Clock builds a TimeOfDay from hours and minutes.
func Clock(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// TimeOfDayOf returns the minute-of-day of t in t's own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return Clock(t.Hour(), t.Minute())
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) Label() SlotLabel {
	return SlotLabel(fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
}

func (t TimeOfDay) String() string {
	return string(t.Label())
}

// ParseTimeOfDay accepts "H:MM", "HH:MM" and "HH:MM:SS". Seconds are
// dropped, never rounded.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	s := strings.TrimSpace(raw)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedLabel, raw)
	}

	hour, err := parseClockField(parts[0], 1, 2, 23)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedLabel, raw)
	}
	minute, err := parseClockField(parts[1], 2, 2, 59)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedLabel, raw)
	}
	if len(parts) == 3 {
		if _, err := parseClockField(parts[2], 2, 2, 59); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedLabel, raw)
		}
	}

	return Clock(hour, minute), nil
}

// MustParseTimeOfDay panics on malformed input. Intended for tests and
// constant tables.
func MustParseTimeOfDay(raw string) TimeOfDay {
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// NormalizeLabel converts a time reported by an external system
// ("10:00", "10:00:00", "9:30") into a canonical SlotLabel.
func NormalizeLabel(raw string) (SlotLabel, error) {
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		return "", err
	}
	return t.Label(), nil
}

func parseClockField(s string, minLen, maxLen, maxValue int) (int, error) {
	if len(s) < minLen || len(s) > maxLen {
		return 0, fmt.Errorf("bad field length %q", s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit in %q", s)
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v > maxValue {
		return 0, fmt.Errorf("field out of range %q", s)
	}
	return v, nil
}
