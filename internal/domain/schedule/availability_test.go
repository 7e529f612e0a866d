package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition_IsTruePartition(t *testing.T) {
	grid, err := Generate(defaultWin, 15, clinicDay, dayBefore)
	require.NoError(t, err)

	occupied := NewOccupiedSet("09:00", "10:15", "13:15", "17:45", "19:00")

	available, taken := Partition(grid, occupied)

	assert.Equal(t, []SlotLabel{"09:00", "10:15", "17:45"}, taken, "lunch and off-grid labels never count as taken")
	assert.Len(t, available, len(grid)-len(taken))

	seen := make(map[SlotLabel]int)
	for _, s := range available {
		seen[s]++
		assert.False(t, occupied.Has(s))
	}
	for _, s := range taken {
		seen[s]++
	}
	require.Len(t, seen, len(grid))
	for _, s := range grid {
		assert.Equal(t, 1, seen[s], "slot %s must be in exactly one side", s)
	}
}

func TestPartition_PreservesOrder(t *testing.T) {
	grid := []SlotLabel{"09:00", "09:15", "09:30", "09:45"}
	available, taken := Partition(grid, NewOccupiedSet("09:45", "09:15"))

	assert.Equal(t, []SlotLabel{"09:00", "09:30"}, available)
	assert.Equal(t, []SlotLabel{"09:15", "09:45"}, taken)
}

func TestPartition_EmptyInputs(t *testing.T) {
	available, taken := Partition(nil, NewOccupiedSet("10:00"))
	assert.Empty(t, available)
	assert.Empty(t, taken)

	grid := []SlotLabel{"09:00"}
	available, taken = Partition(grid, nil)
	assert.Equal(t, grid, available)
	assert.Empty(t, taken)
}

func TestIsBookable(t *testing.T) {
	grid, err := Generate(defaultWin, 15, clinicDay, dayBefore)
	require.NoError(t, err)
	occupied := NewOccupiedSet("10:00", "10:15")

	assert.False(t, IsBookable(grid, occupied, "10:00"))
	assert.False(t, IsBookable(grid, occupied, "10:15"))
	assert.True(t, IsBookable(grid, occupied, "10:30"))
	assert.False(t, IsBookable(grid, occupied, "13:00"), "lunch")
	assert.False(t, IsBookable(grid, occupied, "10:05"), "off grid")
	assert.False(t, IsBookable(grid, occupied, "10:30:00"), "labels are compared byte for byte")
}

func TestOccupiedFromRaw(t *testing.T) {
	var malformed []string
	set := OccupiedFromRaw(
		[]string{"10:00:00", "10:15", "9:30", "", "25:00", "ten", "11:00:00"},
		func(raw string, err error) {
			assert.ErrorIs(t, err, ErrMalformedLabel)
			malformed = append(malformed, raw)
		},
	)

	assert.Equal(t, NewOccupiedSet("10:00", "10:15", "09:30", "11:00"), set)
	assert.Equal(t, []string{"", "25:00", "ten"}, malformed)
}

func TestOccupiedFromRaw_NilCallback(t *testing.T) {
	set := OccupiedFromRaw([]string{"bad", "12:00"}, nil)
	assert.True(t, set.Has("12:00"))
	assert.Len(t, set, 1)
}
