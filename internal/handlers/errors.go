package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// writeError turns a use case error into a JSON error response.
func writeError(c *gin.Context, log *logrus.Logger, err error) {
	var be httperr.BusinessError
	switch {
	case errors.As(err, &be):
		httperr.Business(c, be)

	case errors.Is(err, domain.ErrSlotTaken):
		httperr.Conflict(c, "slot_taken", "This time was just booked, please pick another time.")

	case errors.Is(err, domain.ErrUpstreamUnavailable):
		log.WithError(err).Warn("booking store unavailable")
		httperr.Unavailable(c, "upstream_unavailable", "Scheduling is temporarily unavailable, please try again later.")

	case errors.Is(err, domain.ErrDoctorNotFound):
		httperr.NotFound(c, "doctor_not_found", "Doctor not found.")

	case errors.Is(err, domain.ErrAppointmentNotFound):
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")

	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
		httperr.Internal(c, "internal_error", "Internal error.")
	}
}
