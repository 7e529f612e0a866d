package appointment

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/export"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// Archiver keeps a copy of a generated export.
type Archiver interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
	Rows        int

	// ArchiveKey is empty when archiving is off or failed.
	ArchiveKey string
}

type ExportAppointments struct {
	store   domain.Store
	archive Archiver
	clock   timezone.Clock
	audit   *audit.Dispatcher
	log     *logrus.Logger
}

func NewExportAppointments(
	store domain.Store,
	archive Archiver,
	clock timezone.Clock,
	audit *audit.Dispatcher,
	log *logrus.Logger,
) *ExportAppointments {
	return &ExportAppointments{
		store:   store,
		archive: archive,
		clock:   clock,
		audit:   audit,
		log:     log,
	}
}

func (uc *ExportAppointments) Execute(
	ctx context.Context,
	userID uint,
	filter domain.ListFilter,
) (*ExportResult, error) {

	if filter.Limit <= 0 {
		filter.Limit = maxListLimit
	}
	if filter.Status == "" {
		filter.Status = domain.FilterAll
	}

	list, err := uc.store.ListAppointments(ctx, filter)
	if err != nil {
		return nil, err
	}

	data, err := export.Appointments(list)
	if err != nil {
		return nil, err
	}

	res := &ExportResult{
		FileName:    export.FileName(uc.clock()),
		ContentType: export.ContentType,
		Data:        data,
		Rows:        len(list),
	}

	// An archive failure does not block the download.
	if uc.archive != nil {
		key, err := uc.archive.Put(ctx, res.FileName, res.ContentType, data)
		if err != nil {
			uc.log.WithError(err).Warn("export archive failed")
		} else {
			res.ArchiveKey = key
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID: &userID,
		Actor:  "admin",
		Action: "appointments_exported",
		Entity: "export",
		Metadata: map[string]any{
			"rows":   res.Rows,
			"status": string(filter.Status),
			"key":    res.ArchiveKey,
		},
	})

	return res, nil
}
