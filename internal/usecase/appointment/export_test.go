package appointment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/export"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
)

func TestExportAppointments(t *testing.T) {
	archive := &fakeArchive{}
	d, sink := newAudit()
	uc := NewExportAppointments(seededStore(), archive, clockAt(today, "09:20"), d, logging.Discard())

	res, err := uc.Execute(context.Background(), 1, domain.ListFilter{Status: domain.FilterConfirmed})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, export.ContentType, res.ContentType)
	assert.Equal(t, "appointments_export_20260310_092000.xlsx", res.FileName)
	assert.NotEmpty(t, res.Data)
	assert.Equal(t, "exports/"+res.FileName, res.ArchiveKey)
	assert.Equal(t, []string{res.ArchiveKey}, archive.keys)

	d.Close()
	assert.Equal(t, []string{"appointments_exported"}, sink.actions())
}

func TestExportAppointments_ArchiveFailureStillReturnsFile(t *testing.T) {
	archive := &fakeArchive{err: errors.New("access denied")}
	uc := NewExportAppointments(seededStore(), archive, clockAt(today, "09:20"), nil, logging.Discard())

	res, err := uc.Execute(context.Background(), 1, domain.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Rows)
	assert.Empty(t, res.ArchiveKey)
}

func TestExportAppointments_StoreError(t *testing.T) {
	store := seededStore()
	store.listErr = domain.ErrUpstreamUnavailable
	uc := NewExportAppointments(store, nil, clockAt(today, "09:20"), nil, logging.Discard())

	_, err := uc.Execute(context.Background(), 1, domain.ListFilter{})
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
