package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want SlotLabel
		ok   bool
	}{
		{"10:00", "10:00", true},
		{"10:00:00", "10:00", true},
		{"10:00:59", "10:00", true},
		{"9:30", "09:30", true},
		{" 09:30 ", "09:30", true},
		{"00:00", "00:00", true},
		{"23:59:59", "23:59", true},
		{"24:00", "", false},
		{"12:60", "", false},
		{"12:5", "", false},
		{"12", "", false},
		{"12:00:00:00", "", false},
		{"-1:00", "", false},
		{"1a:00", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeLabel(tt.raw)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrMalformedLabel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDay(t *testing.T) {
	tod := Clock(9, 5)
	assert.Equal(t, 9, tod.Hour())
	assert.Equal(t, 5, tod.Minute())
	assert.Equal(t, SlotLabel("09:05"), tod.Label())
	assert.True(t, tod.Valid())
	assert.False(t, Clock(24, 0).Valid())

	at := time.Date(2026, time.May, 1, 17, 42, 31, 0, time.UTC)
	assert.Equal(t, Clock(17, 42), TimeOfDayOf(at))
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-28", d.String())
	assert.Equal(t, time.Saturday, d.Weekday())
	assert.Equal(t, Date{2026, time.March, 1}, d.AddDays(1))
	assert.Equal(t, 7, d.DaysUntil(d.AddDays(7)))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.Before(d))

	loc := time.FixedZone("UZT", 5*60*60)
	at := d.At(Clock(10, 30), loc)
	assert.Equal(t, 10, at.Hour())
	assert.Equal(t, loc, at.Location())

	_, err = ParseDate("28.02.2026")
	assert.ErrorIs(t, err, ErrMalformedDate)
}
