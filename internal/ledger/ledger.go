// Package ledger records per-message processing attempts and completion.
//
// The store is the single source of truth for deduplication and attempt
// budgeting. CheckAndIncrement is one serialisable read-modify-write per
// message id, MarkProcessed is the only transition to the terminal state.
package ledger

import (
	"context"
	"errors"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/models"
)

var (
	// ErrUnavailable reports that the store could not be reached or the
	// transaction could not be committed. Callers treat it as transient.
	ErrUnavailable = errors.New("ledger unavailable")
	// ErrInvalidMessageID is returned for an empty message id.
	ErrInvalidMessageID = errors.New("message id must not be empty")
	// ErrNotFound is returned by lookups for unknown message ids.
	ErrNotFound = errors.New("processing record not found")
)

// OutcomeKind distinguishes the results of CheckAndIncrement
type OutcomeKind int

const (
	Started OutcomeKind = iota + 1
	AlreadyDone
)

func (k OutcomeKind) String() string {
	switch k {
	case Started:
		return "started"
	case AlreadyDone:
		return "already_done"
	default:
		return "unknown"
	}
}

// AttemptOutcome is the result of CheckAndIncrement. Attempt is the
// post-increment count for Started and the final count for AlreadyDone.
type AttemptOutcome struct {
	Kind    OutcomeKind
	Attempt int
}

// Ledger is the deduplication and retry ledger
type Ledger interface {
	CheckAndIncrement(ctx context.Context, messageID string) (AttemptOutcome, error)
	MarkProcessed(ctx context.Context, messageID string) error
}

// AttemptRecorder appends audit entries for processing attempts
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, entry models.AttemptLog) error
}

// AttemptFilter selects audit entries for ListAttempts
type AttemptFilter struct {
	MessageID string
	Outcome   string
	Page      int
	Limit     int
}
