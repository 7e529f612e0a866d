package models

import "time"

// Appointment stores the slot as the clinic-local date and "HH:MM" label.
// A partial unique index over (doctor_id, date, time) for active rows is
// created in db.NewDB.
type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID uint   `gorm:"not null;index" json:"doctor_id"`
	Doctor   Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"doctor"`

	PatientID uint    `gorm:"not null;index" json:"patient_id"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"patient"`

	Date string `gorm:"column:appointment_date;size:10;not null;index" json:"date"`
	Time string `gorm:"column:appointment_time;size:5;not null" json:"time"`

	Status string `gorm:"size:20;default:'confirmed'" json:"status"`
	Source string `gorm:"size:20;default:'bot'" json:"source"`

	IdempotencyKey *string `gorm:"size:64;uniqueIndex" json:"-"`

	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
