package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

func win(start, end, lunchStart, lunchEnd string) schedule.WorkingWindow {
	return schedule.WorkingWindow{
		Start:      schedule.MustParseTimeOfDay(start),
		End:        schedule.MustParseTimeOfDay(end),
		LunchStart: schedule.MustParseTimeOfDay(lunchStart),
		LunchEnd:   schedule.MustParseTimeOfDay(lunchEnd),
	}
}

func clinicHours() WorkingHours {
	return WorkingHours{
		Default: win("09:00", "18:00", "13:00", "14:00"),
		Overrides: map[uint]schedule.WorkingWindow{
			10: win("09:45", "14:00", "00:00", "00:00"),
		},
		Duration:   15,
		ClosedDays: []time.Weekday{time.Sunday},
	}
}

func TestWorkingHours_WindowFor(t *testing.T) {
	wh := clinicHours()

	assert.Equal(t, win("09:45", "14:00", "00:00", "00:00"), wh.WindowFor(10))
	assert.Equal(t, wh.Default, wh.WindowFor(6))
}

func TestWorkingHours_GridUsesOverride(t *testing.T) {
	wh := clinicHours()
	date := schedule.Date{Year: 2026, Month: time.March, Day: 10}
	now := time.Date(2026, time.March, 9, 20, 0, 0, 0, time.UTC)

	override, err := wh.Grid(10, date, now)
	require.NoError(t, err)
	assert.Equal(t, schedule.SlotLabel("09:45"), override[0])
	assert.Equal(t, schedule.SlotLabel("13:45"), override[len(override)-1])

	def, err := wh.Grid(6, date, now)
	require.NoError(t, err)
	assert.Equal(t, schedule.SlotLabel("09:00"), def[0])
	assert.Len(t, def, 32)
}

func TestWorkingHours_IsClosed(t *testing.T) {
	wh := clinicHours()
	sunday := schedule.Date{Year: 2026, Month: time.March, Day: 8}

	assert.True(t, wh.IsClosed(sunday))
	assert.False(t, wh.IsClosed(sunday.AddDays(1)))
}

func TestWorkingHours_Validate(t *testing.T) {
	require.NoError(t, clinicHours().Validate())

	wh := clinicHours()
	wh.Overrides[7] = win("18:00", "09:00", "00:00", "00:00")
	assert.ErrorIs(t, wh.Validate(), schedule.ErrInvalidWindow)

	wh = clinicHours()
	wh.Duration = 0
	assert.ErrorIs(t, wh.Validate(), schedule.ErrInvalidDuration)
}
