// Package intake decides how to answer a push delivery: consult the ledger,
// schedule background work, and acknowledge or request redelivery.
package intake

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/ledger"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/metrics"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/models"
)

// DefaultMaxAttempts bounds processing attempts per message id
const DefaultMaxAttempts = 5

const syntheticPrefix = "synthetic-"

// Outcome classifies a handled delivery
type Outcome string

const (
	OutcomeScheduled         Outcome = "scheduled"
	OutcomeMalformedEnvelope Outcome = "malformed_envelope"
	OutcomeEmptyPayload      Outcome = "empty_payload"
	OutcomeUndecodable       Outcome = "undecodable_payload"
	OutcomeDuplicate         Outcome = "duplicate"
	OutcomeBudgetExhausted   Outcome = "budget_exhausted"
	OutcomeLedgerUnavailable Outcome = "ledger_unavailable"
	OutcomeScheduleFailed    Outcome = "schedule_failed"
)

// Decision is the result of handling one delivery. Ack false means the
// delivery system should redeliver.
type Decision struct {
	Ack       bool
	Outcome   Outcome
	MessageID string
	Attempt   int
	Err       error
}

// Scheduler accepts work for background execution without running it
type Scheduler interface {
	Submit(job models.RawIntake) error
}

// Deps are the collaborators of a Service
type Deps struct {
	Ledger    ledger.Ledger
	Audit     ledger.AttemptRecorder
	Scheduler Scheduler
	Completed *ledger.CompletedCache
	Metrics   *metrics.Metrics
}

// Options tune a Service
type Options struct {
	MaxAttempts int
	AckTimeout  time.Duration
}

// Service implements the push intake state machine
type Service struct {
	deps        Deps
	maxAttempts int
	ackTimeout  time.Duration
	now         func() time.Time
	newID       func() string
}

// NewService creates an intake Service
func NewService(deps Deps, opts Options) *Service {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	return &Service{
		deps:        deps,
		maxAttempts: opts.MaxAttempts,
		ackTimeout:  opts.AckTimeout,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// MaxAttempts returns the attempt budget per message id
func (s *Service) MaxAttempts() int {
	return s.maxAttempts
}

// Handle decodes body, consults the ledger and schedules work. It never
// waits for the scheduled work to run.
func (s *Service) Handle(ctx context.Context, body []byte) Decision {
	if s.ackTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.ackTimeout)
		defer cancel()
	}

	env, err := DecodeEnvelope(body)
	if err != nil {
		return s.finish(Decision{Ack: true, Outcome: OutcomeMalformedEnvelope, Err: err})
	}

	messageID := env.Message.ID()

	var data string
	if env.Message != nil {
		data = env.Message.Data
	}
	payload, err := DecodePayload(data)
	if err != nil {
		outcome := OutcomeUndecodable
		if errors.Is(err, ErrEmptyPayload) {
			outcome = OutcomeEmptyPayload
		}
		return s.finish(Decision{Ack: true, Outcome: outcome, MessageID: messageID, Err: err})
	}

	if messageID == "" {
		messageID = syntheticPrefix + s.newID()
		logrus.WithField("message_id", messageID).Warn("Delivery has no message id, using a synthetic one")
	}

	if s.deps.Completed.Contains(messageID) {
		return s.finish(Decision{Ack: true, Outcome: OutcomeDuplicate, MessageID: messageID})
	}

	outcome, err := s.deps.Ledger.CheckAndIncrement(ctx, messageID)
	if err != nil {
		s.deps.Metrics.LedgerErrors.WithLabelValues("check_and_increment").Inc()
		return s.finish(Decision{Ack: false, Outcome: OutcomeLedgerUnavailable, MessageID: messageID, Err: err})
	}

	if outcome.Kind == ledger.AlreadyDone {
		s.deps.Completed.Add(messageID)
		return s.finish(Decision{Ack: true, Outcome: OutcomeDuplicate, MessageID: messageID, Attempt: outcome.Attempt})
	}

	if outcome.Attempt > s.maxAttempts {
		s.abandon(ctx, messageID, outcome.Attempt)
		return s.finish(Decision{Ack: true, Outcome: OutcomeBudgetExhausted, MessageID: messageID, Attempt: outcome.Attempt})
	}

	job := models.RawIntake{
		Payload:    payload,
		MessageID:  messageID,
		Attempt:    outcome.Attempt,
		Source:     sourceOf(env),
		ReceivedAt: s.now().UTC(),
	}
	if err := s.deps.Scheduler.Submit(job); err != nil {
		return s.finish(Decision{Ack: false, Outcome: OutcomeScheduleFailed, MessageID: messageID, Attempt: outcome.Attempt, Err: err})
	}

	return s.finish(Decision{Ack: true, Outcome: OutcomeScheduled, MessageID: messageID, Attempt: outcome.Attempt})
}

func (s *Service) abandon(ctx context.Context, messageID string, attempt int) {
	logrus.WithFields(logrus.Fields{
		"message_id":   messageID,
		"attempt":      attempt,
		"max_attempts": s.maxAttempts,
	}).Error("Attempt budget exhausted, abandoning message")

	if s.deps.Audit == nil {
		return
	}
	entry := models.AttemptLog{
		MessageID: messageID,
		Attempt:   attempt,
		Outcome:   models.AttemptAbandoned,
		ErrorMsg:  "attempt budget exhausted",
	}
	if err := s.deps.Audit.RecordAttempt(ctx, entry); err != nil {
		logrus.WithField("message_id", messageID).WithError(err).Warn("Failed to record abandonment")
	}
}

func (s *Service) finish(d Decision) Decision {
	s.deps.Metrics.Deliveries.WithLabelValues(string(d.Outcome)).Inc()

	fields := logrus.Fields{
		"message_id": d.MessageID,
		"outcome":    d.Outcome,
		"ack":        d.Ack,
	}
	// decisions taken before the ledger was consulted have no attempt number
	if d.Attempt > 0 {
		fields["attempt"] = d.Attempt
	}
	entry := logrus.WithFields(fields)
	if d.Err != nil {
		entry = entry.WithError(d.Err)
	}

	switch d.Outcome {
	case OutcomeScheduled, OutcomeDuplicate:
		entry.Info("Push delivery handled")
	case OutcomeMalformedEnvelope, OutcomeEmptyPayload, OutcomeUndecodable:
		entry.Warn("Push delivery dropped")
	default:
		entry.Error("Push delivery not processed")
	}
	return d
}

func sourceOf(env *PushEnvelope) string {
	if env.Message != nil {
		if src := env.Message.Attributes["source"]; src != "" {
			return src
		}
	}
	return "pubsub"
}
