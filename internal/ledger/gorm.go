package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/models"
)

// GormLedger implements Ledger on a relational store through gorm
type GormLedger struct {
	db      *gorm.DB
	retries int
	backoff time.Duration
	now     func() time.Time
}

// Option configures a GormLedger
type Option func(*GormLedger)

// WithRetryPolicy sets how many times a failed transaction is retried and
// the linear backoff step between tries.
func WithRetryPolicy(retries int, backoff time.Duration) Option {
	return func(l *GormLedger) {
		if retries >= 0 {
			l.retries = retries
		}
		l.backoff = backoff
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(l *GormLedger) {
		l.now = now
	}
}

// NewGormLedger creates a ledger backed by db
func NewGormLedger(db *gorm.DB, opts ...Option) *GormLedger {
	l := &GormLedger{
		db:      db,
		retries: 3,
		backoff: 50 * time.Millisecond,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CheckAndIncrement seeds the record if absent, locks it and either reports
// completion or bumps the attempt counter, all inside one transaction.
func (l *GormLedger) CheckAndIncrement(ctx context.Context, messageID string) (AttemptOutcome, error) {
	if messageID == "" {
		return AttemptOutcome{}, ErrInvalidMessageID
	}

	var outcome AttemptOutcome
	err := l.withRetry(ctx, "check_and_increment", messageID, func() error {
		return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			now := l.now().UTC()

			seed := models.ProcessingRecord{
				MessageID: messageID,
				Status:    models.StatusProcessing,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
				return fmt.Errorf("failed to seed record: %w", err)
			}

			var record models.ProcessingRecord
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("message_id = ?", messageID).
				Take(&record).Error; err != nil {
				return fmt.Errorf("failed to lock record: %w", err)
			}

			if record.IsProcessed() {
				outcome = AttemptOutcome{Kind: AlreadyDone, Attempt: record.Attempts}
				return nil
			}

			next := record.Attempts + 1
			if err := tx.Model(&models.ProcessingRecord{}).
				Where("message_id = ?", messageID).
				Updates(map[string]any{"attempts": next, "updated_at": now}).Error; err != nil {
				return fmt.Errorf("failed to increment attempts: %w", err)
			}

			outcome = AttemptOutcome{Kind: Started, Attempt: next}
			return nil
		})
	})
	if err != nil {
		return AttemptOutcome{}, err
	}

	return outcome, nil
}

// MarkProcessed moves the record to processed. Records already processed or
// never seen are left untouched.
func (l *GormLedger) MarkProcessed(ctx context.Context, messageID string) error {
	if messageID == "" {
		return ErrInvalidMessageID
	}

	return l.withRetry(ctx, "mark_processed", messageID, func() error {
		now := l.now().UTC()
		result := l.db.WithContext(ctx).Model(&models.ProcessingRecord{}).
			Where("message_id = ? AND status <> ?", messageID, models.StatusProcessed).
			Updates(map[string]any{
				"status":       models.StatusProcessed,
				"processed_at": now,
				"updated_at":   now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to mark processed: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			logrus.WithField("message_id", messageID).Debug("Record already processed or missing")
		}
		return nil
	})
}

// Get returns the record for messageID
func (l *GormLedger) Get(ctx context.Context, messageID string) (*models.ProcessingRecord, error) {
	var record models.ProcessingRecord
	err := l.db.WithContext(ctx).Where("message_id = ?", messageID).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ledger get %q: %w: %w", messageID, ErrUnavailable, err)
	}
	return &record, nil
}

// RecordAttempt appends an audit entry
func (l *GormLedger) RecordAttempt(ctx context.Context, entry models.AttemptLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = l.now().UTC()
	}
	if err := l.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

// ListAttempts returns a page of audit entries, newest first, and the total
// number of entries matching the filter.
func (l *GormLedger) ListAttempts(ctx context.Context, filter AttemptFilter) ([]models.AttemptLog, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 50
	}

	query := l.db.WithContext(ctx).Model(&models.AttemptLog{})
	if filter.MessageID != "" {
		query = query.Where("message_id = ?", filter.MessageID)
	}
	if filter.Outcome != "" {
		query = query.Where("outcome = ?", filter.Outcome)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count attempts: %w", err)
	}

	var entries []models.AttemptLog
	if err := query.Order("created_at DESC").Order("id DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch attempts: %w", err)
	}

	return entries, total, nil
}

// PruneProcessed deletes processed records completed before the cutoff along
// with audit entries older than it. Records still processing are kept.
func (l *GormLedger) PruneProcessed(ctx context.Context, before time.Time) (int64, error) {
	var pruned int64
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("status = ? AND processed_at < ?", models.StatusProcessed, before.UTC()).
			Delete(&models.ProcessingRecord{})
		if result.Error != nil {
			return fmt.Errorf("failed to prune records: %w", result.Error)
		}
		pruned = result.RowsAffected

		if err := tx.Where("created_at < ?", before.UTC()).Delete(&models.AttemptLog{}).Error; err != nil {
			return fmt.Errorf("failed to prune attempt logs: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return pruned, nil
}

// Ping checks that the store is reachable
func (l *GormLedger) Ping(ctx context.Context) error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (l *GormLedger) withRetry(ctx context.Context, op, messageID string, fn func() error) error {
	var err error
	for try := 0; try <= l.retries; try++ {
		if try > 0 {
			logrus.WithFields(logrus.Fields{
				"message_id": messageID,
				"operation":  op,
				"try":        try,
			}).Warnf("Retrying ledger transaction: %v", err)

			select {
			case <-ctx.Done():
				return fmt.Errorf("ledger %s %q: %w: %w", op, messageID, ErrUnavailable, ctx.Err())
			case <-time.After(l.backoff * time.Duration(try)):
			}
		}

		if err = fn(); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("ledger %s %q: %w: %w", op, messageID, ErrUnavailable, err)
}
