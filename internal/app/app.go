package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/config"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/db"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/genai"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/handler"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/intake"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/ledger"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/logging"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/metrics"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/normalize"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/processor"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/report"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/router"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/scheduler"
)

// App holds the wired service components
type App struct {
	cfg       *config.Config
	db        *gorm.DB
	processor *processor.Processor
	retention *scheduler.Scheduler
	server    *http.Server
}

// Run initializes and starts the application and blocks until SIGINT or
// SIGTERM
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	logging.Setup(cfg.Log)
	logrus.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting Interior AI Service")

	a, err := New(context.Background(), cfg, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	if err != nil {
		return err
	}
	if err := a.Start(); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	a.Shutdown(ctx)

	logrus.Info("Server stopped gracefully")
	return nil
}

// New builds every component from cfg without starting background work
func New(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*App, error) {
	dbConn, err := db.Init(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m := metrics.NewMetricsWith(reg)

	store := ledger.NewGormLedger(dbConn, ledger.WithRetryPolicy(cfg.Database.TxRetries, cfg.Database.TxRetryBackoff))
	completed := ledger.NewCompletedCache(cfg.Intake.CompletedCacheSize)

	sender, err := newSender(ctx, cfg.Email)
	if err != nil {
		return nil, err
	}
	dispatcher, err := report.NewDispatcher(sender, cfg.Email.SenderName, cfg.Email.FromAddress(), cfg.Email.DesignerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to create report dispatcher: %w", err)
	}

	vertex, err := genai.NewVertexClient(ctx, cfg.GenAI)
	if err != nil {
		return nil, err
	}
	generator := genai.NewGenerator(vertex, cfg.GenAI.Model, cfg.GenAI.Timeout)

	proc := processor.New(processor.Config{
		Workers:   cfg.Processor.Workers,
		QueueSize: cfg.Processor.QueueSize,
	}, processor.Deps{
		Normalizer: normalize.New(),
		Generator:  generator,
		Dispatcher: dispatcher,
		Ledger:     store,
		Audit:      store,
		Completed:  completed,
		Metrics:    m,
	})

	svc := intake.NewService(intake.Deps{
		Ledger:    store,
		Audit:     store,
		Scheduler: proc,
		Completed: completed,
		Metrics:   m,
	}, intake.Options{
		MaxAttempts: cfg.Intake.MaxAttempts,
		AckTimeout:  cfg.Intake.AckTimeout,
	})

	retention := scheduler.NewScheduler(cfg.Retention, store, m)

	h := handler.NewHandlers(handler.Deps{
		Config:    cfg,
		Intake:    svc,
		Ledger:    store,
		Processor: proc,
		Retention: retention,
		Gatherer:  gatherer,
	})

	return &App{
		cfg:       cfg,
		db:        dbConn,
		processor: proc,
		retention: retention,
		server: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router.SetupRouter(h, cfg.Server),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}, nil
}

func newSender(ctx context.Context, cfg config.EmailConfig) (report.Sender, error) {
	switch cfg.Transport {
	case config.TransportGmail:
		s, err := report.NewGmailSender(ctx, cfg.Gmail)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gmail sender: %w", err)
		}
		logrus.Info("Using Gmail API for report delivery")
		return s, nil
	default:
		logrus.WithField("smtp_host", cfg.SMTPHost).Info("Using SMTP for report delivery")
		return report.NewSMTPSender(cfg), nil
	}
}

// Start launches the workers, the retention scheduler and the HTTP server
func (a *App) Start() error {
	if err := a.processor.Start(); err != nil {
		return fmt.Errorf("failed to start processor: %w", err)
	}
	if err := a.retention.Start(); err != nil {
		return fmt.Errorf("failed to start retention scheduler: %w", err)
	}

	go func() {
		logrus.Infof("Starting HTTP server on port %s", a.cfg.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()
	return nil
}

// Shutdown stops accepting deliveries, drains scheduled work and closes
// the ledger store
func (a *App) Shutdown(ctx context.Context) {
	if err := a.server.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	if err := a.processor.Stop(a.cfg.Processor.ShutdownTimeout); err != nil {
		logrus.WithError(err).Warn("Processor did not drain cleanly; unfinished messages will be redelivered")
	}

	if err := a.retention.Stop(); err != nil {
		logrus.Errorf("Failed to stop retention scheduler: %v", err)
	}
	a.retention.Wait()

	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("Failed to close database: %v", err)
		}
	}
}
