package models

import "time"

// AttemptOutcome values recorded in AttemptLog
const (
	AttemptSucceeded = "succeeded"
	AttemptFailed    = "failed"
	AttemptAbandoned = "abandoned"
)

// AttemptLog is an append-only audit entry for one processing attempt
type AttemptLog struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	MessageID string    `json:"message_id" gorm:"type:varchar(255);not null;index"`
	Attempt   int       `json:"attempt" gorm:"not null"`
	Outcome   string    `json:"outcome" gorm:"type:varchar(32);not null;index"`
	Step      string    `json:"step,omitempty" gorm:"type:varchar(32)"`
	ErrorMsg  string    `json:"error_msg,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName specifies the table name for AttemptLog
func (AttemptLog) TableName() string {
	return "attempt_logs"
}
