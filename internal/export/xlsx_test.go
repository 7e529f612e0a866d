package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
)

func TestAppointments(t *testing.T) {
	day := schedule.Date{Year: 2026, Month: time.March, Day: 10}
	data, err := Appointments([]appointment.Appointment{
		{
			ID: "1", Date: day, Time: "10:00", Status: appointment.StatusConfirmed,
			PatientName: "Ivanov", PatientPhone: "+998901234567", DoctorName: "Dr. Imomov",
			Source: appointment.SourceBot, TelegramID: 555,
		},
		{
			ID: "2", Date: day, Time: "10:15", Status: appointment.StatusNoShow,
			PatientName: "Petrov", DoctorName: "Dr. Seberg", Source: appointment.SourceSite,
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, headers, rows[0])
	assert.Equal(t, []string{"1", "2026-03-10", "10:00", "Awaiting", "Ivanov", "+998901234567", "Dr. Imomov", "Bot", "555"}, rows[1])
	assert.Equal(t, "No-show", rows[2][3])
	assert.Equal(t, "Site/Other", rows[2][7])
}

func TestAppointments_Empty(t *testing.T) {
	data, err := Appointments(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFileName(t *testing.T) {
	at := time.Date(2026, 3, 10, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, "appointments_export_20260310_090507.xlsx", FileName(at))
}
