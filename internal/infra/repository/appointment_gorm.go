package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var activeStatuses = []string{
	string(domain.StatusPending),
	string(domain.StatusConfirmed),
}

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Doctors
// --------------------------------------------------

func (r *AppointmentGormRepository) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	var rows []models.Doctor
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: list doctors: %v", domain.ErrUpstreamUnavailable, err)
	}

	out := make([]domain.Doctor, 0, len(rows))
	for _, d := range rows {
		out = append(out, domain.Doctor{
			ID:          d.ID,
			Name:        d.Name,
			Specialty:   d.Specialty,
			Description: d.Description,
		})
	}
	return out, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) OccupiedTimes(
	ctx context.Context,
	doctorID uint,
	date schedule.Date,
) ([]string, error) {

	var times []string
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"doctor_id = ? AND appointment_date = ? AND status IN ?",
			doctorID, date.String(), activeStatuses,
		).
		Order("appointment_time ASC").
		Pluck("appointment_time", &times).Error; err != nil {
		return nil, fmt.Errorf("%w: occupied times: %v", domain.ErrUpstreamUnavailable, err)
	}

	return times, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

// CreateAppointment locks the active rows of the slot before inserting. The
// partial unique index still rejects a concurrent insert that slips past.
func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *domain.Appointment,
) error {

	if ap.IdempotencyKey != "" {
		existing, err := r.FindByIdempotencyKey(ctx, ap.IdempotencyKey)
		if err == nil {
			if !existing.SameSlot(ap.DoctorID, ap.Date, ap.Time) {
				return httperr.ErrBusiness("idempotency_key_mismatch")
			}
			*ap = *existing
			return nil
		}
		if !errors.Is(err, domain.ErrAppointmentNotFound) {
			return err
		}
	}

	status := ap.Status
	if status == "" {
		status = domain.InitialStatus()
	}

	row := models.Appointment{
		DoctorID: ap.DoctorID,
		Date:     ap.Date.String(),
		Time:     string(ap.Time),
		Status:   string(status),
		Source:   ap.Source,
	}
	if ap.IdempotencyKey != "" {
		key := ap.IdempotencyKey
		row.IdempotencyKey = &key
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doctor models.Doctor
		if err := tx.Where("id = ? AND active = ?", ap.DoctorID, true).First(&doctor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrDoctorNotFound
			}
			return err
		}

		taken, err := hasSlotConflict(tx, ap.DoctorID, row.Date, row.Time)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrSlotTaken
		}

		patient, err := getOrCreatePatient(tx, ap.TelegramID, ap.PatientName, ap.PatientPhone)
		if err != nil {
			return err
		}
		row.PatientID = patient.ID

		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		ap.DoctorName = doctor.Name
		return nil
	})
	if err != nil {
		if httperr.IsExclusionConflict(err) {
			return fmt.Errorf("%w: %v", domain.ErrSlotTaken, err)
		}
		return err
	}

	ap.ID = strconv.FormatUint(uint64(row.ID), 10)
	ap.Status = status
	return nil
}

func (r *AppointmentGormRepository) FindByIdempotencyKey(
	ctx context.Context,
	key string,
) (*domain.Appointment, error) {

	var row models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Doctor").
		Preload("Patient").
		Where("idempotency_key = ?", key).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("%w: idempotency lookup: %v", domain.ErrUpstreamUnavailable, err)
	}
	ap := toDomain(row)
	return &ap, nil
}

func hasSlotConflict(tx *gorm.DB, doctorID uint, date, label string) (bool, error) {
	var ids []uint
	if err := tx.
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"doctor_id = ? AND appointment_date = ? AND appointment_time = ? AND status IN ?",
			doctorID, date, label, activeStatuses,
		).
		Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func getOrCreatePatient(tx *gorm.DB, telegramID int64, name, phone string) (*models.Patient, error) {
	var patient models.Patient

	q := tx.Model(&models.Patient{})
	if telegramID != 0 {
		q = q.Where("telegram_id = ?", telegramID)
	} else {
		q = q.Where("telegram_id IS NULL AND phone = ?", phone)
	}

	err := q.First(&patient).Error
	if err == nil {
		if patient.Name != name || patient.Phone != phone {
			patient.Name = name
			patient.Phone = phone
			if err := tx.Save(&patient).Error; err != nil {
				return nil, err
			}
		}
		return &patient, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	patient = models.Patient{Name: name, Phone: phone}
	if telegramID != 0 {
		id := telegramID
		patient.TelegramID = &id
	}
	if err := tx.Create(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id string,
) (*domain.Appointment, error) {

	row, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	ap := toDomain(*row)
	return &ap, nil
}

func (r *AppointmentGormRepository) CancelAppointment(
	ctx context.Context,
	id string,
) error {

	row, err := r.find(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status IN ?", row.ID, activeStatuses).
		Updates(map[string]any{
			"status":       string(domain.StatusCancelled),
			"cancelled_at": &now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func (r *AppointmentGormRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status domain.Status,
) error {

	row, err := r.find(ctx, id)
	if err != nil {
		return err
	}

	// Reactivating a visit or no-show collides with the active-slot index
	// when the slot was booked again in the meantime.
	err = r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", row.ID).
		Update("status", string(status)).Error
	if httperr.IsExclusionConflict(err) {
		return fmt.Errorf("%w: %v", domain.ErrSlotTaken, err)
	}
	return err
}

func (r *AppointmentGormRepository) find(ctx context.Context, id string) (*models.Appointment, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return nil, domain.ErrAppointmentNotFound
	}

	var row models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Doctor").
		Preload("Patient").
		First(&row, uint(n)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &row, nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) PatientAppointments(
	ctx context.Context,
	telegramID int64,
) ([]domain.Appointment, error) {

	var rows []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Doctor").
		Preload("Patient").
		Joins("JOIN patients ON patients.id = appointments.patient_id").
		Where("patients.telegram_id = ? AND appointments.status IN ?", telegramID, activeStatuses).
		Order("appointment_date ASC, appointment_time ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: patient appointments: %v", domain.ErrUpstreamUnavailable, err)
	}

	return toDomainList(rows), nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	filter domain.ListFilter,
) ([]domain.Appointment, error) {

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	q := r.db.WithContext(ctx).
		Preload("Doctor").
		Preload("Patient").
		Where("status <> ?", string(domain.StatusCancelled))

	switch filter.Status {
	case domain.FilterConfirmed:
		q = q.Where("status IN ?", activeStatuses)
	case domain.FilterVisited:
		q = q.Where("status = ?", string(domain.StatusVisited))
	case domain.FilterNoShow:
		q = q.Where("status = ?", string(domain.StatusNoShow))
	}
	if !filter.From.IsZero() {
		q = q.Where("appointment_date >= ?", filter.From.String())
	}
	if !filter.To.IsZero() {
		q = q.Where("appointment_date <= ?", filter.To.String())
	}

	var rows []models.Appointment
	if err := q.
		Order("appointment_date ASC, appointment_time ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: list appointments: %v", domain.ErrUpstreamUnavailable, err)
	}

	return toDomainList(rows), nil
}

// --------------------------------------------------
// Mapping
// --------------------------------------------------

func toDomain(row models.Appointment) domain.Appointment {
	ap := domain.Appointment{
		ID:           strconv.FormatUint(uint64(row.ID), 10),
		DoctorID:     row.DoctorID,
		DoctorName:   row.Doctor.Name,
		Time:         schedule.SlotLabel(row.Time),
		PatientName:  row.Patient.Name,
		PatientPhone: row.Patient.Phone,
		Status:       domain.Status(row.Status),
		Source:       row.Source,
	}
	if row.Patient.TelegramID != nil {
		ap.TelegramID = *row.Patient.TelegramID
	}
	if row.IdempotencyKey != nil {
		ap.IdempotencyKey = *row.IdempotencyKey
	}
	ap.Date, _ = schedule.ParseDate(row.Date)
	return ap
}

func toDomainList(rows []models.Appointment) []domain.Appointment {
	out := make([]domain.Appointment, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out
}

// Compile-time check
var _ domain.Store = (*AppointmentGormRepository)(nil)
