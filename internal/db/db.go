package db

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// activeSlotIndex makes the database the arbiter of double booking: two
// active rows can never share (doctor, date, time).
const activeSlotIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_slot
	ON appointments (doctor_id, appointment_date, appointment_time)
	WHERE status IN ('pending', 'confirmed')
`

func NewDB(cfg *config.Config, log *logrus.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DB.URL), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Doctor{},
		&models.Patient{},
		&models.User{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	if err := db.Exec(activeSlotIndex).Error; err != nil {
		log.Fatalf("failed to create slot index: %v", err)
	}

	seedDoctors(db, cfg, log)
	seedAdmin(db, cfg.Admin, log)

	log.Info("database ready")
	return db
}

// seedDoctors inserts the configured doctor list into an empty table.
func seedDoctors(db *gorm.DB, cfg *config.Config, log *logrus.Logger) {
	var count int64
	if err := db.Model(&models.Doctor{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	for _, d := range cfg.Doctors {
		doc := models.Doctor{ID: d.ID, Name: d.Name, Specialty: d.Specialty, Active: true}
		if err := db.Create(&doc).Error; err != nil {
			log.WithError(err).WithField("doctor_id", d.ID).Warn("seed doctor failed")
		}
	}
}

func seedAdmin(db *gorm.DB, admin config.AdminConfig, log *logrus.Logger) {
	if admin.Email == "" || admin.Password == "" {
		return
	}

	var existing models.User
	err := db.Where("email = ?", admin.Email).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.WithError(err).Warn("admin lookup failed")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Warn("admin password hash failed")
		return
	}

	user := models.User{
		Name:         admin.Name,
		Email:        admin.Email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		log.WithError(err).Warn("seed admin failed")
		return
	}
	log.WithField("email", admin.Email).Info("admin account created")
}
