package appointment

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
	"github.com/BruksfildServices01/clinic-scheduler/internal/observability/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	DoctorID uint
	Date     schedule.Date
	Time     string

	PatientName  string
	PatientPhone string
	TelegramID   int64

	Source         string
	IdempotencyKey string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	store    domain.Store
	hours    domain.WorkingHours
	policy   BookingPolicy
	clock    timezone.Clock
	claims   SlotClaimer
	notifier notify.Notifier
	audit    *audit.Dispatcher
	log      *logrus.Logger
	metrics  *metrics.SchedulerMetrics
}

// NewCreateBooking wires the booking flow. claims and notifier may be nil.
func NewCreateBooking(
	store domain.Store,
	hours domain.WorkingHours,
	policy BookingPolicy,
	clock timezone.Clock,
	claims SlotClaimer,
	notifier notify.Notifier,
	audit *audit.Dispatcher,
	log *logrus.Logger,
	m *metrics.SchedulerMetrics,
) *CreateBooking {
	return &CreateBooking{
		store:    store,
		hours:    hours,
		policy:   policy,
		clock:    clock,
		claims:   claims,
		notifier: notifier,
		audit:    audit,
		log:      log,
		metrics:  m,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*domain.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Patient
	// --------------------------------------------------
	if !validators.IsPatientNameValid(in.PatientName) {
		return nil, httperr.ErrBusiness("invalid_name")
	}
	phone, ok := validators.NormalizePhone(in.PatientPhone)
	if !ok {
		return nil, httperr.ErrBusiness("invalid_phone")
	}

	label, err := schedule.NormalizeLabel(in.Time)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_time")
	}

	if len(in.IdempotencyKey) > domain.MaxIdempotencyKeyLen {
		return nil, httperr.ErrBusiness("invalid_idempotency_key")
	}

	// --------------------------------------------------
	// 🔁 Retried request
	// --------------------------------------------------
	if in.IdempotencyKey != "" {
		existing, err := uc.replay(ctx, in, label)
		if err != nil || existing != nil {
			return existing, err
		}
	}

	// --------------------------------------------------
	// 2️⃣ Booking window
	// --------------------------------------------------
	now := uc.clock()
	today := schedule.DateOf(now)

	if in.Date.Before(today) {
		return nil, httperr.ErrBusiness("date_in_past")
	}
	if !uc.policy.InHorizon(today, in.Date) {
		return nil, httperr.ErrBusiness("outside_horizon")
	}
	if uc.hours.IsClosed(in.Date) {
		return nil, httperr.ErrBusiness("clinic_closed")
	}
	if in.Date == today && uc.policy.PastCutoff(now) {
		return nil, httperr.ErrBusiness("booking_closed_today")
	}

	entry := uc.log.WithFields(logrus.Fields{
		"doctor_id": in.DoctorID,
		"date":      in.Date.String(),
		"time":      string(label),
	})

	// --------------------------------------------------
	// 3️⃣ Late revalidation against fresh occupancy
	// --------------------------------------------------
	grid, err := uc.hours.Grid(in.DoctorID, in.Date, now)
	if err != nil {
		return nil, err
	}

	occupied, err := loadOccupied(ctx, uc.store, uc.log, uc.metrics, in.DoctorID, in.Date)
	if err != nil {
		if !uc.policy.AllowUnknownOccupancy {
			uc.metrics.ObserveBooking("upstream_unavailable")
			return nil, err
		}
		entry.WithError(err).Warn("occupancy unknown, leaving conflict check to store")
		occupied = schedule.NewOccupiedSet()
	}

	if !schedule.IsBookable(grid, occupied, label) {
		switch {
		case !schedule.IsBookable(grid, schedule.NewOccupiedSet(), label):
			uc.metrics.ObserveBooking("rejected")
			return nil, httperr.ErrBusiness("invalid_slot")
		case in.IdempotencyKey == "":
			return nil, uc.conflict(entry, in, label, "revalidation")
		default:
			// The holder may be this key's own earlier booking in a store
			// that deduplicates only on create.
			entry.Info("slot occupied, store decides keyed retry")
		}
	}

	// --------------------------------------------------
	// 4️⃣ Slot claim
	// --------------------------------------------------
	if uc.claims != nil {
		token, err := uc.claims.Claim(ctx, in.DoctorID, in.Date, label)
		switch {
		case errors.Is(err, domain.ErrSlotTaken):
			return nil, uc.conflict(entry, in, label, "claim")
		case err != nil:
			entry.WithError(err).Warn("slot claim unavailable, continuing without it")
		default:
			defer func() {
				if err := uc.claims.Release(context.WithoutCancel(ctx), in.DoctorID, in.Date, label, token); err != nil {
					entry.WithError(err).Warn("slot claim release failed")
				}
			}()
		}
	}

	// --------------------------------------------------
	// 5️⃣ Create (store is the arbiter)
	// --------------------------------------------------
	source := in.Source
	if source == "" {
		source = domain.SourceBot
	}

	ap := &domain.Appointment{
		DoctorID:       in.DoctorID,
		Date:           in.Date,
		Time:           label,
		PatientName:    strings.TrimSpace(in.PatientName),
		PatientPhone:   phone,
		TelegramID:     in.TelegramID,
		Status:         domain.InitialStatus(),
		Source:         source,
		IdempotencyKey: in.IdempotencyKey,
	}

	if err := uc.store.CreateAppointment(ctx, ap); err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			return nil, uc.conflict(entry, in, label, "store")
		}
		uc.metrics.ObserveBooking("error")
		entry.WithError(err).Error("booking create failed")
		return nil, err
	}

	if ap.DoctorName == "" {
		ap.DoctorName = uc.doctorName(ctx, ap.DoctorID)
	}

	// --------------------------------------------------
	// 6️⃣ Audit + notification
	// --------------------------------------------------
	uc.metrics.ObserveBooking("created")
	uc.audit.Dispatch(audit.Event{
		Actor:    source,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]any{
			"doctor_id":   ap.DoctorID,
			"date":        ap.Date.String(),
			"time":        string(ap.Time),
			"telegram_id": ap.TelegramID,
		},
	})
	entry.WithField("appointment_id", ap.ID).Info("appointment created")

	if uc.notifier != nil && ap.TelegramID != 0 {
		if err := uc.notifier.Notify(ctx, ap.TelegramID, notify.BookingConfirmed(*ap)); err != nil {
			entry.WithError(err).Warn("booking confirmation not delivered")
		}
	}

	return ap, nil
}

func (uc *CreateBooking) conflict(
	entry *logrus.Entry,
	in CreateBookingInput,
	label schedule.SlotLabel,
	stage string,
) error {
	uc.metrics.ObserveBooking("conflict")
	uc.audit.Dispatch(audit.Event{
		Actor:  in.Source,
		Action: "booking_conflict",
		Entity: "slot",
		Metadata: map[string]any{
			"doctor_id": in.DoctorID,
			"date":      in.Date.String(),
			"time":      string(label),
			"stage":     stage,
		},
	})
	entry.WithField("stage", stage).Info("slot already taken")
	return domain.ErrSlotTaken
}

// replay returns the booking an earlier request with the same key created,
// or nil when there is none.
func (uc *CreateBooking) replay(
	ctx context.Context,
	in CreateBookingInput,
	label schedule.SlotLabel,
) (*domain.Appointment, error) {

	existing, err := uc.store.FindByIdempotencyKey(ctx, in.IdempotencyKey)
	if errors.Is(err, domain.ErrAppointmentNotFound) {
		return nil, nil
	}
	if err != nil {
		uc.metrics.ObserveBooking("error")
		return nil, err
	}

	if !existing.SameSlot(in.DoctorID, in.Date, label) {
		uc.metrics.ObserveBooking("rejected")
		return nil, httperr.ErrBusiness("idempotency_key_mismatch")
	}

	if existing.DoctorName == "" {
		existing.DoctorName = uc.doctorName(ctx, existing.DoctorID)
	}
	uc.metrics.ObserveBooking("replayed")
	uc.log.WithFields(logrus.Fields{
		"appointment_id": existing.ID,
		"doctor_id":      existing.DoctorID,
	}).Info("replayed booking for idempotency key")
	return existing, nil
}

// doctorName is best effort: a failed lookup leaves the name empty.
func (uc *CreateBooking) doctorName(ctx context.Context, doctorID uint) string {
	doctors, err := uc.store.ListDoctors(ctx)
	if err != nil {
		return ""
	}
	for _, d := range doctors {
		if d.ID == doctorID {
			return d.Name
		}
	}
	return ""
}
