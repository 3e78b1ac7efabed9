package models

import "time"

// RecordStatus is the lifecycle state of a ProcessingRecord
type RecordStatus string

const (
	StatusProcessing RecordStatus = "processing"
	StatusProcessed  RecordStatus = "processed"
)

// ProcessingRecord is the ledger row kept for every observed message id.
// Status only moves from processing to processed and attempts never decrease.
type ProcessingRecord struct {
	MessageID   string       `json:"message_id" gorm:"primaryKey;type:varchar(255)"`
	Attempts    int          `json:"attempts" gorm:"not null"`
	Status      RecordStatus `json:"status" gorm:"type:varchar(32);not null;index"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	ProcessedAt *time.Time   `json:"processed_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for ProcessingRecord
func (ProcessingRecord) TableName() string {
	return "processing_records"
}

// IsProcessed reports whether the record reached its terminal state
func (r *ProcessingRecord) IsProcessed() bool {
	return r.Status == StatusProcessed
}
