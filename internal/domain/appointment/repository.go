package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

// Store is the system of record for doctors and bookings. It is the sole
// arbiter of slot conflicts: CreateAppointment must return ErrSlotTaken
// when another active booking already holds (doctor, date, time).
type Store interface {
	// -------- Doctors --------
	ListDoctors(ctx context.Context) ([]Doctor, error)

	// -------- Availability --------

	// OccupiedTimes returns the raw times of active bookings, possibly in
	// "HH:MM:SS" form. Callers normalize them.
	OccupiedTimes(
		ctx context.Context,
		doctorID uint,
		date schedule.Date,
	) ([]string, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *Appointment,
	) error

	// FindByIdempotencyKey returns the booking created with key, or
	// ErrAppointmentNotFound. Stores that only deduplicate inside
	// CreateAppointment always return ErrAppointmentNotFound.
	FindByIdempotencyKey(
		ctx context.Context,
		key string,
	) (*Appointment, error)

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		id string,
	) (*Appointment, error)

	CancelAppointment(
		ctx context.Context,
		id string,
	) error

	UpdateStatus(
		ctx context.Context,
		id string,
		status Status,
	) error

	// -------- Listing --------
	PatientAppointments(
		ctx context.Context,
		telegramID int64,
	) ([]Appointment, error)

	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]Appointment, error)
}

type ListFilter struct {
	Status StatusFilter
	Limit  int

	// From and To bound the appointment date, both inclusive. A zero date
	// leaves that side open.
	From schedule.Date
	To   schedule.Date
}

// Keep applies the filter to one appointment. Stores that cannot filter
// server side use it after fetching.
func (f ListFilter) Keep(ap Appointment) bool {
	if !f.Status.Matches(ap.Status) {
		return false
	}
	if !f.From.IsZero() && ap.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && f.To.Before(ap.Date) {
		return false
	}
	return true
}
