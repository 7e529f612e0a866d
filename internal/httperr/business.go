package httperr

import (
	"errors"
	"net/http"
)

// BusinessError is a rule violation the client can correct. Code is the
// stable machine-readable value returned as error_code.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

type businessInfo struct {
	status  int
	message string
}

// Codes without an entry answer 400 with an empty message.
var businessCodes = map[string]businessInfo{
	// -------- Patient input --------
	"invalid_name":  {http.StatusBadRequest, "Please enter your full name."},
	"invalid_phone": {http.StatusBadRequest, "Please enter a valid phone number."},
	"invalid_time":  {http.StatusBadRequest, "Invalid time."},

	// -------- Booking window --------
	"invalid_slot":         {http.StatusBadRequest, "This time is not available for booking."},
	"date_in_past":         {http.StatusBadRequest, "This date has already passed."},
	"outside_horizon":      {http.StatusBadRequest, "Booking is not open for this date yet."},
	"clinic_closed":        {http.StatusBadRequest, "The clinic is closed on this day."},
	"booking_closed_today": {http.StatusBadRequest, "Booking for today is closed."},

	// -------- Retries --------
	"invalid_idempotency_key":  {http.StatusBadRequest, "Idempotency-Key must be at most 64 characters."},
	"idempotency_key_mismatch": {http.StatusConflict, "Idempotency-Key was already used for a different booking."},

	// -------- Existing appointments --------
	"appointment_not_found": {http.StatusNotFound, "Appointment not found."},
	"not_owner":             {http.StatusForbidden, "This appointment does not belong to you."},
	"invalid_state":         {http.StatusConflict, "The appointment can no longer be changed."},
	"invalid_status":        {http.StatusBadRequest, "Unknown status."},
}

func (e BusinessError) Status() int {
	if info, ok := businessCodes[e.Code]; ok {
		return info.status
	}
	return http.StatusBadRequest
}

func (e BusinessError) Message() string {
	return businessCodes[e.Code].message
}
