package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
	"github.com/BruksfildServices01/clinic-scheduler/internal/observability/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// Deps are the process-wide singletons built at startup. Redis, Notifier
// and Archive may be nil.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Store    domain.Store
	Audit    *audit.Dispatcher
	Notifier notify.Notifier
	Archive  ucAppointment.Archiver
	Metrics  *metrics.SchedulerMetrics
	Gatherer prometheus.Gatherer
	Clock    timezone.Clock
	Log      *logrus.Logger
}

// Policy derives the booking policy from configuration.
func Policy(cfg *config.Config) ucAppointment.BookingPolicy {
	cutoff, hasCutoff, _ := cfg.Booking.Cutoff()
	return ucAppointment.BookingPolicy{
		HorizonDays:           cfg.Schedule.HorizonDays,
		ClosesAt:              cutoff,
		HasCutoff:             hasCutoff,
		AllowUnknownOccupancy: cfg.Booking.AllowUnknownOccupancy,
	}
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(cfg.App.CORSOrigins))

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	policy := Policy(cfg)

	var claims ucAppointment.SlotClaimer
	if d.Redis != nil {
		claims = cache.NewSlotClaims(d.Redis, cfg.Booking.ClaimTTL)
	}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	listDoctorsUC := ucAppointment.NewListDoctors(d.Store, cfg.FallbackDoctors, d.Log)
	bookingDatesUC := ucAppointment.NewBookingDates(cfg.Hours, policy, d.Clock)
	availabilityUC := ucAppointment.NewGetAvailability(
		d.Store,
		cfg.Hours,
		policy,
		d.Clock,
		d.Log,
		d.Metrics,
	)
	createBookingUC := ucAppointment.NewCreateBooking(
		d.Store,
		cfg.Hours,
		policy,
		d.Clock,
		claims,
		d.Notifier,
		d.Audit,
		d.Log,
		d.Metrics,
	)
	listMineUC := ucAppointment.NewListPatientAppointments(d.Store)
	cancelMineUC := ucAppointment.NewCancelPatientAppointment(d.Store, d.Audit, d.Log)

	listUC := ucAppointment.NewListAppointments(d.Store)
	statusUC := ucAppointment.NewUpdateStatus(d.Store, d.Audit, d.Log)
	cancelUC := ucAppointment.NewCancelAppointment(d.Store, d.Audit, d.Log)
	exportUC := ucAppointment.NewExportAppointments(d.Store, d.Archive, d.Clock, d.Audit, d.Log)
	systemUC := ucAppointment.NewGetSystemStatus(d.Store, d.Clock)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	botHandler := handlers.NewBotHandler(
		listDoctorsUC,
		bookingDatesUC,
		availabilityUC,
		createBookingUC,
		listMineUC,
		cancelMineUC,
		d.Log,
	)
	adminHandler := handlers.NewAdminHandler(
		listUC,
		statusUC,
		cancelUC,
		exportUC,
		systemUC,
		d.Log,
	)
	authHandler := handlers.NewAuthHandler(d.DB, cfg.JWT, d.Audit, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)
	healthHandler := handlers.NewHealthHandler(healthChecks(d))

	// ======================================================
	// 🩺 OPS
	// ======================================================
	r.GET("/health", healthHandler.Health)
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🤖 BOT API
		// ------------------------------
		bot := api.Group("/bot")
		bot.Use(middleware.APIKeyMiddleware(cfg.Bot.APIKey))
		{
			bot.GET("/doctors", botHandler.Doctors)
			bot.GET("/doctors/:id/dates", botHandler.Dates)
			bot.GET("/doctors/:id/availability", botHandler.Availability)
			bot.POST("/appointments", botHandler.CreateAppointment)
			bot.GET("/patients/:telegramId/appointments", botHandler.PatientAppointments)
			bot.POST("/patients/:telegramId/appointments/:id/cancel", botHandler.CancelPatientAppointment)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/me", authHandler.Me)

			admin.GET("/appointments", adminHandler.List)
			admin.GET("/appointments/export", adminHandler.Export)
			admin.PATCH("/appointments/:id/status", adminHandler.UpdateStatus)
			admin.POST("/appointments/:id/cancel", adminHandler.Cancel)

			admin.GET("/status", adminHandler.Status)
			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}

func healthChecks(d Deps) map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{}
	if d.DB != nil {
		checks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := d.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if d.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return d.Redis.Ping(ctx).Err()
		}
	}
	return checks
}
