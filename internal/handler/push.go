package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/intake"
)

const defaultMaxBodyBytes = 1 << 20

// PushDelivery handles a Pub/Sub push delivery. The response carries no
// body: 204 acknowledges, any other status asks for redelivery.
func (h *Handlers) PushDelivery(c *gin.Context) {
	limit := h.cfg.Intake.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
	if err != nil {
		// unreadable or oversized bodies are treated as malformed envelopes
		logrus.WithError(err).WithField("limit", limit).Warn("Failed to read push delivery body")
		body = nil
	}

	decision := h.intake.Handle(c.Request.Context(), body)
	c.Status(statusFor(decision))
}

func statusFor(d intake.Decision) int {
	if d.Ack {
		return http.StatusNoContent
	}
	if d.Outcome == intake.OutcomeLedgerUnavailable {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// PushInfo describes the push endpoint
func (h *Handlers) PushInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"endpoint":     "/webhooks/pubsub",
		"method":       "POST",
		"description":  "Handles Pub/Sub push notifications with client form data",
		"subscription": h.cfg.PubSub.Subscription,
		"max_attempts": h.intake.MaxAttempts(),
		"max_body":     h.cfg.Intake.MaxBodyBytes,
	})
}
