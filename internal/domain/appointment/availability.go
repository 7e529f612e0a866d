package appointment

import "github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"

type AvailabilityInput struct {
	DoctorID uint
	Date     schedule.Date
}

// Reason explains an empty availability answer. The patient sees the same
// "no free time" message for all of them; logs and metrics keep them apart.
type Reason string

const (
	ReasonOpen        Reason = ""
	ReasonClosed      Reason = "closed"
	ReasonNoSlots     Reason = "no_slots"
	ReasonFullyBooked Reason = "fully_booked"
)

type Availability struct {
	DoctorID uint
	Date     schedule.Date

	Available []schedule.SlotLabel
	Occupied  []schedule.SlotLabel

	Reason Reason

	// Degraded is set when occupancy could not be fetched and the grid is
	// shown without exclusions.
	Degraded bool
}

func (a Availability) Empty() bool {
	return len(a.Available) == 0
}
