package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/bookingstore"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
	"github.com/BruksfildServices01/clinic-scheduler/internal/observability/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/reminder"
	"github.com/BruksfildServices01/clinic-scheduler/internal/routes"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

const shutdownTimeout = 10 * time.Second

// App holds the process-wide dependencies.
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Audit       *audit.Dispatcher
	Reminders   *reminder.Scheduler
	Server      *http.Server
}

func New(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logging.New(cfg.App.LogLevel, cfg.App.LogFormat)
	app := &App{Config: cfg, Log: log}
	log.WithField("env", cfg.App.Env).Info("configuration loaded")

	// --------------------------------------------------
	// Postgres (admin accounts, audit trail, optional store)
	// --------------------------------------------------
	app.DB = dbpkg.NewDB(cfg, log)
	log.Info("database connected")

	// --------------------------------------------------
	// Redis is optional: without it slot claims and reminder
	// de-duplication are off.
	// --------------------------------------------------
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, continuing without slot claims")
	} else {
		app.RedisClient = redisClient
		log.Info("redis connected")
	}

	clock := timezone.ClockIn(cfg.App.Timezone)
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewSchedulerMetrics(reg)

	store, err := newStore(cfg, app.DB, log, m)
	if err != nil {
		return nil, err
	}

	notifier := newNotifier(cfg, log)
	app.Audit = audit.NewDispatcher(audit.New(app.DB), log)

	archive := storage.NewArchive(nil, "", "", log)
	if cfg.Export.Bucket != "" {
		archive = storage.NewArchive(storage.NewS3Client(cfg.Export), cfg.Export.Bucket, cfg.Export.Prefix, log)
	}

	// --------------------------------------------------
	// Reminders
	// --------------------------------------------------
	if cfg.Reminder.Enabled && app.RedisClient != nil {
		job := reminder.NewJob(
			store,
			cache.NewReminderLedger(app.RedisClient, 0),
			notifier,
			clock,
			log,
			m,
		)
		app.Reminders, err = reminder.NewScheduler(cfg.Reminder.Spec, job, timezone.Location(cfg.App.Timezone), log)
		if err != nil {
			return nil, fmt.Errorf("reminder schedule %q: %w", cfg.Reminder.Spec, err)
		}
	} else if cfg.Reminder.Enabled {
		log.Warn("reminders need redis, scheduler not started")
	}

	// --------------------------------------------------
	// HTTP
	// --------------------------------------------------
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Config:   cfg,
		DB:       app.DB,
		Redis:    app.RedisClient,
		Store:    store,
		Audit:    app.Audit,
		Notifier: notifier,
		Archive:  archive,
		Metrics:  m,
		Gatherer: reg,
		Clock:    clock,
		Log:      log,
	})

	app.Server = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return app, nil
}

func newStore(
	cfg *config.Config,
	db *gorm.DB,
	log *logrus.Logger,
	m *metrics.SchedulerMetrics,
) (domain.Store, error) {

	switch cfg.Store.Driver {
	case "remote":
		client, err := bookingstore.New(bookingstore.Config{
			BaseURL:    cfg.Store.BaseURL,
			APIKey:     cfg.Store.APIKey,
			Timeout:    cfg.Store.Timeout,
			MaxRetries: cfg.Store.MaxRetries,
			Backoff:    cfg.Store.Backoff,
			Logger:     log,
			Metrics:    m,
		})
		if err != nil {
			return nil, fmt.Errorf("booking store: %w", err)
		}
		log.WithField("base_url", cfg.Store.BaseURL).Info("using remote booking store")
		return client, nil
	default:
		log.Info("using postgres booking store")
		return repository.NewAppointmentGormRepository(db), nil
	}
}

func newNotifier(cfg *config.Config, log *logrus.Logger) notify.Notifier {
	if cfg.Telegram.Token == "" {
		return notify.LogNotifier{Log: log}
	}
	tg, err := notify.NewTelegram(cfg.Telegram.Token, log)
	if err != nil {
		log.WithError(err).Warn("telegram unavailable, notifications will only be logged")
		return notify.LogNotifier{Log: log}
	}
	return tg
}

// Run serves until SIGINT or SIGTERM.
func (app *App) Run() {
	if app.Reminders != nil {
		app.Reminders.Start()
	}

	go func() {
		app.Log.WithField("addr", app.Server.Addr).Info("server starting")
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Log.WithError(err).Fatal("server failed")
		}
	}()

	app.waitForShutdown()
}

func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.WithError(err).Error("server forced to shutdown")
	}
	if app.Reminders != nil {
		app.Reminders.Stop(ctx)
	}
}

// Close releases connections after the server stopped.
func (app *App) Close() {
	if app.Audit != nil {
		app.Audit.Close()
	}
	if app.RedisClient != nil {
		if err := app.RedisClient.Close(); err != nil {
			app.Log.WithError(err).Warn("redis close failed")
		}
	}
	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	app.Log.Info("shutdown complete")
}
