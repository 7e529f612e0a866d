package appointment

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// UpdateStatus records what happened to an appointment: visited, no-show,
// or back to confirmed.
type UpdateStatus struct {
	store domain.Store
	audit *audit.Dispatcher
	log   *logrus.Logger
}

func NewUpdateStatus(
	store domain.Store,
	audit *audit.Dispatcher,
	log *logrus.Logger,
) *UpdateStatus {
	return &UpdateStatus{
		store: store,
		audit: audit,
		log:   log,
	}
}

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	userID uint,
	appointmentID string,
	next domain.Status,
) (*domain.Appointment, error) {

	ap, err := uc.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}

	previous := ap.Status
	if err := domain.Mark(ap, next); err != nil {
		return nil, err
	}

	if err := uc.store.UpdateStatus(ctx, ap.ID, next); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Actor:    "admin",
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{
			"from": string(previous),
			"to":   string(next),
		},
	})
	uc.log.WithFields(logrus.Fields{
		"appointment_id": ap.ID,
		"from":           previous,
		"to":             next,
	}).Info("appointment status changed")

	return ap, nil
}
