package appointment

import (
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

// ===============================
// Entities
// ===============================

type Doctor struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Specialty   string `json:"specialty"`
	Description string `json:"description,omitempty"`
}

const (
	SourceBot  = "bot"
	SourceSite = "site"
)

type Appointment struct {
	ID         string
	DoctorID   uint
	DoctorName string

	Date schedule.Date
	Time schedule.SlotLabel

	PatientName  string
	PatientPhone string
	TelegramID   int64

	Status Status
	Source string

	// IdempotencyKey lets the store recognise a retried create call.
	IdempotencyKey string
}

// MaxIdempotencyKeyLen matches the width of the stored key column.
const MaxIdempotencyKeyLen = 64

// SameSlot reports whether the appointment holds exactly this slot.
func (a Appointment) SameSlot(doctorID uint, date schedule.Date, label schedule.SlotLabel) bool {
	return a.DoctorID == doctorID && a.Date == date && a.Time == label
}

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *Appointment) error {
	if err := CanCancel(ap.Status); err != nil {
		return err
	}
	ap.Status = StatusCancelled
	return nil
}

func Mark(ap *Appointment, next Status) error {
	if err := CanMark(ap.Status, next); err != nil {
		return err
	}
	ap.Status = next
	return nil
}
