package timezone

import "time"

const DefaultTimezone = "Asia/Tashkent"

// Clock returns the current time in the clinic timezone. Use cases take a
// Clock instead of calling time.Now so tests can pin "now".
type Clock func() time.Time

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location falls back to the clinic default, and to a fixed UTC+5 zone when
// the host has no tzdata.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.FixedZone("UZT", 5*60*60)
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

func ClockIn(tz string) Clock {
	loc := Location(tz)
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// Fixed returns a Clock frozen at t.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}
