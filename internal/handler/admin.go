package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/ledger"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/models"
)

// GetMessage returns the ledger record for a message id
func (h *Handlers) GetMessage(c *gin.Context) {
	messageID := c.Param("id")

	record, err := h.ledger.Get(c.Request.Context(), messageID)
	if errors.Is(err, ledger.ErrNotFound) {
		errorJSON(c, http.StatusNotFound, "not_found", "Message not found")
		return
	}
	if err != nil {
		logrus.WithField("message_id", messageID).WithError(err).Error("Failed to fetch processing record")
		errorJSON(c, http.StatusServiceUnavailable, "ledger_unavailable", "Failed to fetch processing record")
		return
	}

	maxAttempts := h.intake.MaxAttempts()
	c.JSON(http.StatusOK, ProcessingRecordResponse{
		MessageID:   record.MessageID,
		Attempts:    record.Attempts,
		Status:      string(record.Status),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
		ProcessedAt: record.ProcessedAt,
		MaxAttempts: maxAttempts,
		Exhausted:   !record.IsProcessed() && record.Attempts >= maxAttempts,
	})
}

// GetAttempts returns audit entries with pagination
func (h *Handlers) GetAttempts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	outcome := c.Query("outcome")
	switch outcome {
	case "", models.AttemptSucceeded, models.AttemptFailed, models.AttemptAbandoned:
	default:
		errorJSON(c, http.StatusBadRequest, "invalid_outcome", "Outcome must be succeeded, failed or abandoned")
		return
	}

	entries, total, err := h.ledger.ListAttempts(c.Request.Context(), ledger.AttemptFilter{
		MessageID: c.Query("message_id"),
		Outcome:   outcome,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to list attempts")
		errorJSON(c, http.StatusInternalServerError, "database_error", "Failed to fetch attempts")
		return
	}

	responses := make([]AttemptLogResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, AttemptLogResponse{
			ID:        e.ID,
			MessageID: e.MessageID,
			Attempt:   e.Attempt,
			Outcome:   e.Outcome,
			Step:      e.Step,
			ErrorMsg:  e.ErrorMsg,
			CreatedAt: e.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"attempts": responses,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetRetentionStatus returns the retention scheduler status
func (h *Handlers) GetRetentionStatus(c *gin.Context) {
	status := "stopped"
	if h.retention.IsRunning() {
		status = "running"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         status,
		"retention_days": h.cfg.Retention.Days,
		"next_run":       optionalTime(h.retention.GetNextRun()),
		"last_run":       optionalTime(h.retention.GetLastRun()),
	})
}

// RunRetention prunes processed records immediately
func (h *Handlers) RunRetention(c *gin.Context) {
	removed, err := h.retention.RunOnce()
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "retention_error", "Failed to prune processed records")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Retention sweep completed",
		"removed": removed,
	})
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
