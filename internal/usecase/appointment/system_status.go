package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type SystemStatus struct {
	StoreReachable bool
	Doctors        int
	Appointments   int
	CheckedAt      time.Time
}

// GetSystemStatus reports what the store currently holds. A store failure
// is part of the answer, not an error.
type GetSystemStatus struct {
	store domain.Store
	clock timezone.Clock
}

func NewGetSystemStatus(store domain.Store, clock timezone.Clock) *GetSystemStatus {
	return &GetSystemStatus{store: store, clock: clock}
}

func (uc *GetSystemStatus) Execute(ctx context.Context) SystemStatus {
	st := SystemStatus{CheckedAt: uc.clock()}

	doctors, err := uc.store.ListDoctors(ctx)
	if err != nil {
		return st
	}
	st.Doctors = len(doctors)

	list, err := uc.store.ListAppointments(ctx, domain.ListFilter{
		Status: domain.FilterAll,
		Limit:  maxListLimit,
	})
	if err != nil {
		return st
	}
	st.Appointments = len(list)
	st.StoreReachable = true
	return st
}
