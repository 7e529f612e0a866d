package appointment

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// ======================================================
// ADMIN CANCEL
// ======================================================

type CancelAppointment struct {
	store domain.Store
	audit *audit.Dispatcher
	log   *logrus.Logger
}

func NewCancelAppointment(
	store domain.Store,
	audit *audit.Dispatcher,
	log *logrus.Logger,
) *CancelAppointment {
	return &CancelAppointment{
		store: store,
		audit: audit,
		log:   log,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	userID uint,
	appointmentID string,
) (*domain.Appointment, error) {

	ap, err := uc.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}

	if err := domain.Cancel(ap); err != nil {
		return nil, err
	}

	if err := uc.store.CancelAppointment(ctx, ap.ID); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Actor:    "admin",
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: ap.ID,
	})
	uc.log.WithField("appointment_id", ap.ID).Info("appointment cancelled by admin")

	return ap, nil
}

// ======================================================
// PATIENT CANCEL
// ======================================================

// CancelPatientAppointment lets a patient cancel one of their own active
// appointments.
type CancelPatientAppointment struct {
	store domain.Store
	audit *audit.Dispatcher
	log   *logrus.Logger
}

func NewCancelPatientAppointment(
	store domain.Store,
	audit *audit.Dispatcher,
	log *logrus.Logger,
) *CancelPatientAppointment {
	return &CancelPatientAppointment{
		store: store,
		audit: audit,
		log:   log,
	}
}

func (uc *CancelPatientAppointment) Execute(
	ctx context.Context,
	telegramID int64,
	appointmentID string,
) (*domain.Appointment, error) {

	mine, err := uc.store.PatientAppointments(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	var ap *domain.Appointment
	for i := range mine {
		if mine[i].ID == appointmentID {
			ap = &mine[i]
			break
		}
	}
	if ap == nil {
		return nil, httperr.ErrBusiness("not_owner")
	}

	if err := domain.Cancel(ap); err != nil {
		return nil, err
	}

	if err := uc.store.CancelAppointment(ctx, ap.ID); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    domain.SourceBot,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{"telegram_id": telegramID},
	})
	uc.log.WithFields(logrus.Fields{
		"appointment_id": ap.ID,
		"telegram_id":    telegramID,
	}).Info("appointment cancelled by patient")

	return ap, nil
}
