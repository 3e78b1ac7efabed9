package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/config"
)

const (
	healthy   = "healthy"
	unhealthy = "unhealthy"

	pingTimeout = 2 * time.Second
)

// HealthCheck handles basic health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  healthy,
		"service": serviceName,
		"message": "Service is running",
	})
}

// Liveness answers liveness probes
func (h *Handlers) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "alive",
		"service": serviceName,
		"message": "Service is alive and responding",
	})
}

// Startup answers startup probes
func (h *Handlers) Startup(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"service":    serviceName,
		"message":    "Service has started successfully",
		"started_at": h.startedAt.UTC().Format(time.RFC3339),
	})
}

// Readiness checks the ledger store, the worker pool and the configuration.
// Any failing check makes the service unready.
func (h *Handlers) Readiness(c *gin.Context) {
	response := HealthResponse{
		Status:             healthy,
		Service:            serviceName,
		Timestamp:          time.Now().UTC(),
		Checks:             configChecks(h.cfg),
		QueueDepth:         h.processor.QueueDepth(),
		RetentionScheduler: "stopped",
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()
	if err := h.ledger.Ping(ctx); err != nil {
		logrus.WithError(err).Error("Ledger health check failed")
		response.Checks["ledger"] = unhealthy
	} else {
		response.Checks["ledger"] = healthy
	}

	if h.processor.IsRunning() {
		response.Checks["processor"] = healthy
	} else {
		response.Checks["processor"] = unhealthy
	}

	if h.retention != nil && h.retention.IsRunning() {
		response.RetentionScheduler = "running"
	}

	for name, state := range response.Checks {
		if state != healthy {
			response.UnhealthyServices = append(response.UnhealthyServices, name)
		}
	}
	sort.Strings(response.UnhealthyServices)

	status := http.StatusOK
	if len(response.UnhealthyServices) > 0 {
		response.Status = unhealthy
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response)
}

// Info returns the non-secret runtime configuration
func (h *Handlers) Info(c *gin.Context) {
	cfg := h.cfg
	c.JSON(http.StatusOK, gin.H{
		"service":              cfg.App.Name,
		"version":              cfg.App.Version,
		"environment":          cfg.App.Environment,
		"log_level":            cfg.Log.Level,
		"database_driver":      cfg.Database.Driver,
		"google_cloud_project": cfg.GenAI.ProjectID,
		"vertex_ai_location":   cfg.GenAI.Location,
		"genai_model":          cfg.GenAI.Model,
		"pubsub_topic":         cfg.PubSub.Topic,
		"pubsub_subscription":  cfg.PubSub.Subscription,
		"email_transport":      cfg.Email.Transport,
		"designer_email":       cfg.Email.DesignerEmail,
		"max_attempts":         h.intake.MaxAttempts(),
		"processor_workers":    cfg.Processor.Workers,
		"retention_days":       cfg.Retention.Days,
	})
}

func configChecks(cfg *config.Config) map[string]string {
	checks := map[string]string{
		"google_cloud_project": state(cfg.GenAI.ProjectID != "" && cfg.GenAI.ProjectID != "your-project-id"),
		"vertex_ai_config":     state(cfg.GenAI.Location != "" && cfg.GenAI.Model != ""),
		"pubsub_config":        state(cfg.PubSub.Topic != "" && cfg.PubSub.Subscription != ""),
		"environment":          state(validEnvironment(cfg.App.Environment)),
	}

	email := cfg.Email
	switch email.Transport {
	case config.TransportGmail:
		checks["email_config"] = state(email.DesignerEmail != "" && email.Gmail.ClientID != "" &&
			email.Gmail.ClientSecret != "" && email.Gmail.RefreshToken != "")
	default:
		checks["email_config"] = state(email.DesignerEmail != "" && email.SMTPHost != "" && email.SMTPPort > 0 &&
			email.SMTPUsername != "" && email.SMTPPassword != "")
	}
	return checks
}

func validEnvironment(env string) bool {
	switch env {
	case "development", "staging", "production":
		return true
	}
	return false
}

func state(ok bool) string {
	if ok {
		return healthy
	}
	return unhealthy
}
