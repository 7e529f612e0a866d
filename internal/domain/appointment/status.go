package appointment

import (
	"strings"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusVisited   Status = "visited"
	StatusNoShow    Status = "noshow"
	StatusCancelled Status = "cancelled"
)

// Active reports whether the appointment still holds its slot.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ===============================
// Validations
// ===============================

// CanCancel allows cancelling only appointments that still hold a slot.
func CanCancel(current Status) error {
	if !current.Active() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanMark validates an administrator status change.
func CanMark(current, next Status) error {
	switch next {
	case StatusConfirmed, StatusVisited, StatusNoShow:
	default:
		return httperr.ErrBusiness("invalid_status")
	}
	if current == StatusCancelled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusConfirmed
}

func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusConfirmed, StatusVisited, StatusNoShow, StatusCancelled:
		return s, true
	}
	return "", false
}

// ===============================
// Admin list filter
// ===============================

type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterConfirmed StatusFilter = "confirmed"
	FilterVisited   StatusFilter = "visited"
	FilterNoShow    StatusFilter = "noshow"
)

func ParseStatusFilter(raw string) (StatusFilter, bool) {
	f := StatusFilter(strings.ToLower(strings.TrimSpace(raw)))
	switch f {
	case "":
		return FilterAll, true
	case FilterAll, FilterConfirmed, FilterVisited, FilterNoShow:
		return f, true
	}
	return "", false
}

// Matches treats pending appointments as confirmed, the way the clinic
// front desk reads them.
func (f StatusFilter) Matches(s Status) bool {
	switch f {
	case FilterAll, "":
		return true
	case FilterConfirmed:
		return s == StatusConfirmed || s == StatusPending
	case FilterVisited:
		return s == StatusVisited
	case FilterNoShow:
		return s == StatusNoShow
	}
	return false
}
