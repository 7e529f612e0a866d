package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
)

func TestListAppointments_Filter(t *testing.T) {
	uc := NewListAppointments(seededStore())

	all, err := uc.Execute(context.Background(), domain.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	confirmed, err := uc.Execute(context.Background(), domain.ListFilter{Status: domain.FilterConfirmed})
	require.NoError(t, err)
	require.Len(t, confirmed, 2)
	assert.Equal(t, "1", confirmed[0].ID)
	assert.Equal(t, "2", confirmed[1].ID)

	limited, err := uc.Execute(context.Background(), domain.ListFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListPatientAppointments_OnlyActive(t *testing.T) {
	uc := NewListPatientAppointments(seededStore())

	list, err := uc.Execute(context.Background(), 555)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].ID)

	none, err := uc.Execute(context.Background(), 42)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListDoctors_FallsBackWhenStoreDown(t *testing.T) {
	store := newFakeStore()
	fallback := func() ([]domain.Doctor, error) {
		return []domain.Doctor{{ID: 2, Name: "Dr. Static"}}, nil
	}
	uc := NewListDoctors(store, fallback, logging.Discard())

	doctors, fromFallback, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.False(t, fromFallback)
	assert.Len(t, doctors, 2)

	store.doctorsErr = domain.ErrUpstreamUnavailable
	doctors, fromFallback, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, fromFallback)
	assert.Equal(t, uint(2), doctors[0].ID)

	uc = NewListDoctors(store, nil, logging.Discard())
	_, _, err = uc.Execute(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestGetSystemStatus(t *testing.T) {
	store := seededStore()
	uc := NewGetSystemStatus(store, clockAt(today, "09:20"))

	st := uc.Execute(context.Background())
	assert.True(t, st.StoreReachable)
	assert.Equal(t, 2, st.Doctors)
	assert.Equal(t, 4, st.Appointments)

	store.doctorsErr = errStoreDown
	st = uc.Execute(context.Background())
	assert.False(t, st.StoreReachable)
	assert.Zero(t, st.Doctors)
}
