package bookingstore

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

// flexID accepts ids sent either as JSON numbers or strings.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

func (f flexID) Uint() uint {
	n, err := strconv.ParseUint(string(f), 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

func (f flexID) Int64() int64 {
	n, err := strconv.ParseInt(string(f), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Numeric status codes used by the remote scheduling service.
const (
	codeCancelled = 0
	codeConfirmed = 1
	codePending   = 2
	codeVisited   = 4
	codeNoShow    = 5
)

func statusFromCode(code int) appointment.Status {
	switch code {
	case codeCancelled:
		return appointment.StatusCancelled
	case codeConfirmed:
		return appointment.StatusConfirmed
	case codeVisited:
		return appointment.StatusVisited
	case codeNoShow:
		return appointment.StatusNoShow
	}
	return appointment.StatusPending
}

func codeFromStatus(s appointment.Status) int {
	switch s {
	case appointment.StatusCancelled:
		return codeCancelled
	case appointment.StatusConfirmed:
		return codeConfirmed
	case appointment.StatusVisited:
		return codeVisited
	case appointment.StatusNoShow:
		return codeNoShow
	}
	return codePending
}

// flexStatus accepts a numeric code, a numeric string or a status name.
type flexStatus appointment.Status

func (f *flexStatus) UnmarshalJSON(data []byte) error {
	var raw flexID
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}
	s := string(raw)
	if code, err := strconv.Atoi(s); err == nil {
		*f = flexStatus(statusFromCode(code))
		return nil
	}
	if st, ok := appointment.ParseStatus(s); ok {
		*f = flexStatus(st)
		return nil
	}
	*f = flexStatus(appointment.StatusPending)
	return nil
}

type doctorPayload struct {
	ID          flexID `json:"id"`
	Name        string `json:"name"`
	Specialty   string `json:"specialty"`
	Description string `json:"description"`
}

type occupiedPayload struct {
	ID     flexID     `json:"id"`
	Time   string     `json:"time"`
	Status flexStatus `json:"status"`
}

type createRequest struct {
	DoctorID        uint   `json:"doctor_id"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	UserName        string `json:"user_name"`
	UserPhone       string `json:"user_phone"`
	TelegramID      int64  `json:"telegram_id,omitempty"`
	Source          string `json:"source,omitempty"`
}

type createResponse struct {
	Success bool   `json:"success"`
	ID      flexID `json:"id"`
	Message string `json:"message"`
}

type patientAppointmentPayload struct {
	ID       flexID     `json:"id"`
	DoctorID flexID     `json:"doctor_id"`
	Doctor   string     `json:"doctor"`
	Date     string     `json:"date"`
	Time     string     `json:"time"`
	Status   flexStatus `json:"status"`
}

type adminAppointmentPayload struct {
	ID              flexID     `json:"id"`
	DoctorID        flexID     `json:"doctor_id"`
	DoctorName      string     `json:"doctor_name"`
	UserName        string     `json:"user_name"`
	UserPhone       string     `json:"user_phone"`
	AppointmentDate string     `json:"appointment_date"`
	AppointmentTime string     `json:"appointment_time"`
	Status          flexStatus `json:"status"`
	Source          string     `json:"source"`
	TelegramID      flexID     `json:"telegram_id"`
}

type apiErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
