package dto

import (
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	DoctorID    uint   `json:"doctor_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	PatientName string `json:"patient_name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	TelegramID  int64  `json:"telegram_id"`
	Source      string `json:"source" binding:"omitempty,oneof=bot site"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ======================================================
// RESPONSES
// ======================================================

type AppointmentDTO struct {
	ID          string `json:"id"`
	DoctorID    uint   `json:"doctor_id,omitempty"`
	DoctorName  string `json:"doctor_name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	PatientName string `json:"patient_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	TelegramID  int64  `json:"telegram_id,omitempty"`
	Status      string `json:"status"`
	Source      string `json:"source,omitempty"`
}

type AvailabilityDTO struct {
	DoctorID  uint     `json:"doctor_id"`
	Date      string   `json:"date"`
	Available []string `json:"available"`
	Occupied  []string `json:"occupied"`
	Reason    string   `json:"reason,omitempty"`
	Degraded  bool     `json:"degraded,omitempty"`
}

type DoctorsDTO struct {
	Doctors  []appointment.Doctor `json:"doctors"`
	Fallback bool                 `json:"fallback"`
}

type DatesDTO struct {
	DoctorID uint     `json:"doctor_id"`
	Dates    []string `json:"dates"`
}

// ======================================================
// MAPPING
// ======================================================

func FromAppointment(ap appointment.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:          ap.ID,
		DoctorID:    ap.DoctorID,
		DoctorName:  ap.DoctorName,
		Date:        ap.Date.String(),
		Time:        string(ap.Time),
		PatientName: ap.PatientName,
		Phone:       ap.PatientPhone,
		TelegramID:  ap.TelegramID,
		Status:      string(ap.Status),
		Source:      ap.Source,
	}
}

func FromAppointments(list []appointment.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(list))
	for _, ap := range list {
		out = append(out, FromAppointment(ap))
	}
	return out
}

func FromAvailability(a appointment.Availability) AvailabilityDTO {
	return AvailabilityDTO{
		DoctorID:  a.DoctorID,
		Date:      a.Date.String(),
		Available: labels(a.Available),
		Occupied:  labels(a.Occupied),
		Reason:    string(a.Reason),
		Degraded:  a.Degraded,
	}
}

func FromDates(doctorID uint, dates []schedule.Date) DatesDTO {
	out := DatesDTO{DoctorID: doctorID, Dates: make([]string, 0, len(dates))}
	for _, d := range dates {
		out.Dates = append(out.Dates, d.String())
	}
	return out
}

func labels(in []schedule.SlotLabel) []string {
	out := make([]string, 0, len(in))
	for _, l := range in {
		out = append(out, string(l))
	}
	return out
}
