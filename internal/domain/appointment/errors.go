package appointment

import "errors"

var (
	// ErrSlotTaken is returned when the store rejects a booking because the
	// slot is already held.
	ErrSlotTaken = errors.New("slot already taken")

	// ErrUpstreamUnavailable wraps any failure to reach the booking store.
	ErrUpstreamUnavailable = errors.New("booking store unavailable")

	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
)
