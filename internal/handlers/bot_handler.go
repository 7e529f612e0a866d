package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// BotHandler serves the Telegram bot and the booking site.
type BotHandler struct {
	listDoctors  *ucAppointment.ListDoctors
	bookingDates *ucAppointment.BookingDates
	availability *ucAppointment.GetAvailability
	createUC     *ucAppointment.CreateBooking
	listMineUC   *ucAppointment.ListPatientAppointments
	cancelMineUC *ucAppointment.CancelPatientAppointment
	log          *logrus.Logger
}

func NewBotHandler(
	listDoctors *ucAppointment.ListDoctors,
	bookingDates *ucAppointment.BookingDates,
	availability *ucAppointment.GetAvailability,
	createUC *ucAppointment.CreateBooking,
	listMineUC *ucAppointment.ListPatientAppointments,
	cancelMineUC *ucAppointment.CancelPatientAppointment,
	log *logrus.Logger,
) *BotHandler {
	return &BotHandler{
		listDoctors:  listDoctors,
		bookingDates: bookingDates,
		availability: availability,
		createUC:     createUC,
		listMineUC:   listMineUC,
		cancelMineUC: cancelMineUC,
		log:          log,
	}
}

// ======================================================
// DOCTORS / DATES / AVAILABILITY
// ======================================================

func (h *BotHandler) Doctors(c *gin.Context) {
	doctors, fallback, err := h.listDoctors.Execute(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if doctors == nil {
		doctors = []domain.Doctor{}
	}
	httpresp.OK(c, dto.DoctorsDTO{Doctors: doctors, Fallback: fallback})
}

func (h *BotHandler) Dates(c *gin.Context) {
	doctorID, ok := doctorIDParam(c)
	if !ok {
		return
	}

	dates, err := h.bookingDates.Execute(doctorID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, dto.FromDates(doctorID, dates))
}

func (h *BotHandler) Availability(c *gin.Context) {
	doctorID, ok := doctorIDParam(c)
	if !ok {
		return
	}
	date, ok := dateValue(c, c.Query("date"))
	if !ok {
		return
	}

	res, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		DoctorID: doctorID,
		Date:     date,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, dto.FromAvailability(*res))
}

// ======================================================
// BOOKING
// ======================================================

func (h *BotHandler) CreateAppointment(c *gin.Context) {
	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	date, ok := dateValue(c, req.Date)
	if !ok {
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateBookingInput{
		DoctorID:       req.DoctorID,
		Date:           date,
		Time:           req.Time,
		PatientName:    req.PatientName,
		PatientPhone:   req.Phone,
		TelegramID:     req.TelegramID,
		Source:         req.Source,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, dto.FromAppointment(*ap))
}

// ======================================================
// MY APPOINTMENTS
// ======================================================

func (h *BotHandler) PatientAppointments(c *gin.Context) {
	telegramID, ok := telegramIDParam(c)
	if !ok {
		return
	}

	list, err := h.listMineUC.Execute(c.Request.Context(), telegramID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.List(c, dto.FromAppointments(list))
}

func (h *BotHandler) CancelPatientAppointment(c *gin.Context) {
	telegramID, ok := telegramIDParam(c)
	if !ok {
		return
	}

	ap, err := h.cancelMineUC.Execute(c.Request.Context(), telegramID, c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, dto.FromAppointment(*ap))
}
