package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/config"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/intake"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/ledger"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/models"
)

const serviceName = "interior-ai-service"

// IntakeService decides the response to a push delivery
type IntakeService interface {
	Handle(ctx context.Context, body []byte) intake.Decision
	MaxAttempts() int
}

// LedgerReader exposes ledger state to the admin API and readiness probe
type LedgerReader interface {
	Get(ctx context.Context, messageID string) (*models.ProcessingRecord, error)
	ListAttempts(ctx context.Context, filter ledger.AttemptFilter) ([]models.AttemptLog, int64, error)
	Ping(ctx context.Context) error
}

// QueueStatus reports background processor state
type QueueStatus interface {
	QueueDepth() int
	IsRunning() bool
}

// RetentionScheduler is the periodic ledger pruning job
type RetentionScheduler interface {
	IsRunning() bool
	RunOnce() (int64, error)
	GetNextRun() time.Time
	GetLastRun() time.Time
}

// Deps are the collaborators of Handlers
type Deps struct {
	Config    *config.Config
	Intake    IntakeService
	Ledger    LedgerReader
	Processor QueueStatus
	Retention RetentionScheduler
	Gatherer  prometheus.Gatherer
}

// Handlers contains all HTTP handlers
type Handlers struct {
	cfg       *config.Config
	intake    IntakeService
	ledger    LedgerReader
	processor QueueStatus
	retention RetentionScheduler
	gatherer  prometheus.Gatherer
	startedAt time.Time
}

// NewHandlers creates new HTTP handlers
func NewHandlers(deps Deps) *Handlers {
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handlers{
		cfg:       deps.Config,
		intake:    deps.Intake,
		ledger:    deps.Ledger,
		processor: deps.Processor,
		retention: deps.Retention,
		gatherer:  gatherer,
		startedAt: time.Now(),
	}
}

// SetupRoutes sets up all HTTP routes
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	router.GET("/", h.Root)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))

	health := router.Group("/health")
	{
		health.GET("", h.HealthCheck)
		health.GET("/liveness", h.Liveness)
		health.GET("/startup", h.Startup)
		health.GET("/readiness", h.Readiness)
		health.GET("/info", h.Info)
	}

	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/pubsub", h.PushDelivery)
		webhooks.GET("/pubsub", h.PushInfo)
	}

	api := router.Group("/api/v1")
	{
		api.GET("/messages/:id", h.GetMessage)
		api.GET("/attempts", h.GetAttempts)

		api.GET("/retention/status", h.GetRetentionStatus)
		api.POST("/retention/run-once", h.RunRetention)
	}
}

// Root returns service information
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     h.cfg.App.Name,
		"version":     h.cfg.App.Version,
		"environment": h.cfg.App.Environment,
		"status":      "running",
	})
}

func errorJSON(c *gin.Context, code int, kind, message string) {
	c.JSON(code, ErrorResponse{
		Error:   kind,
		Message: message,
		Code:    code,
	})
}
