package handler

import "time"

// ProcessingRecordResponse is the admin view of a ledger record
type ProcessingRecordResponse struct {
	MessageID   string     `json:"message_id"`
	Attempts    int        `json:"attempts"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	MaxAttempts int        `json:"max_attempts"`
	Exhausted   bool       `json:"exhausted"`
}

// AttemptLogResponse is the admin view of an audit entry
type AttemptLogResponse struct {
	ID        uint      `json:"id"`
	MessageID string    `json:"message_id"`
	Attempt   int       `json:"attempt"`
	Outcome   string    `json:"outcome"`
	Step      string    `json:"step,omitempty"`
	ErrorMsg  string    `json:"error_msg,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HealthResponse represents the readiness check response
type HealthResponse struct {
	Status             string            `json:"status"`
	Service            string            `json:"service"`
	Timestamp          time.Time         `json:"timestamp"`
	Checks             map[string]string `json:"checks"`
	UnhealthyServices  []string          `json:"unhealthy_services,omitempty"`
	QueueDepth         int               `json:"queue_depth"`
	RetentionScheduler string            `json:"retention_scheduler"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
