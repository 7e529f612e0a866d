package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type ListAppointments struct {
	store domain.Store
}

func NewListAppointments(store domain.Store) *ListAppointments {
	return &ListAppointments{store: store}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	filter domain.ListFilter,
) ([]domain.Appointment, error) {

	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultListLimit
	case filter.Limit > maxListLimit:
		filter.Limit = maxListLimit
	}
	if filter.Status == "" {
		filter.Status = domain.FilterAll
	}

	list, err := uc.store.ListAppointments(ctx, filter)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Appointment{}
	}
	return list, nil
}

// ListPatientAppointments returns the active appointments booked under one
// Telegram account.
type ListPatientAppointments struct {
	store domain.Store
}

func NewListPatientAppointments(store domain.Store) *ListPatientAppointments {
	return &ListPatientAppointments{store: store}
}

func (uc *ListPatientAppointments) Execute(
	ctx context.Context,
	telegramID int64,
) ([]domain.Appointment, error) {

	list, err := uc.store.PatientAppointments(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Appointment, 0, len(list))
	for _, ap := range list {
		if ap.Status.Active() {
			out = append(out, ap)
		}
	}
	return out, nil
}
