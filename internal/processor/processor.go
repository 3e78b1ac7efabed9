// Package processor runs the intake unit of work off the acknowledgment
// path: normalize, generate a profile, dispatch the report, then mark the
// message processed in the ledger.
package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/ledger"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/metrics"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/models"
)

var (
	// ErrQueueFull is returned by Submit when no queue slot is free
	ErrQueueFull = errors.New("processor queue is full")
	// ErrStopped is returned by Submit after Stop
	ErrStopped = errors.New("processor is stopped")
	// ErrNoFormData is returned when normalization yields nothing usable
	ErrNoFormData = errors.New("normalizer returned no form data")
	// ErrNoProfile is returned when the generator reports success without a profile
	ErrNoProfile = errors.New("generator returned no profile")
	// ErrNoReceipt is returned when the dispatcher reports success without a receipt
	ErrNoReceipt = errors.New("dispatcher returned no receipt")
)

const bookkeepingTimeout = 10 * time.Second

// Step names a stage of the unit of work
type Step string

const (
	StepNormalize Step = "normalize"
	StepGenerate  Step = "generate"
	StepDispatch  Step = "dispatch"
	StepPanic     Step = "panic"
)

// StepError reports the stage at which a processing attempt failed
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Normalizer maps raw payloads to form data, reporting warnings
type Normalizer interface {
	Normalize(raw map[string]any) (*models.ClientFormData, []string)
}

// ProfileGenerator produces a client profile from form data
type ProfileGenerator interface {
	Generate(ctx context.Context, form *models.ClientFormData) (*models.ClientProfile, error)
}

// ReportDispatcher delivers a client profile report
type ReportDispatcher interface {
	Send(ctx context.Context, profile *models.ClientProfile) (*models.DispatchReceipt, error)
}

// Config sizes the worker pool
type Config struct {
	Workers   int
	QueueSize int
}

// Deps are the collaborators of a Processor
type Deps struct {
	Normalizer Normalizer
	Generator  ProfileGenerator
	Dispatcher ReportDispatcher
	Ledger     ledger.Ledger
	Audit      ledger.AttemptRecorder
	Completed  *ledger.CompletedCache
	Metrics    *metrics.Metrics
}

// Processor executes scheduled attempts on a bounded pool of workers
type Processor struct {
	deps    Deps
	queue   chan models.RawIntake
	workers int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	started bool
	stopped bool
}

// New creates a Processor. Workers are not running until Start.
func New(cfg Config, deps Deps) *Processor {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Processor{
		deps:    deps,
		queue:   make(chan models.RawIntake, cfg.QueueSize),
		workers: cfg.Workers,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (p *Processor) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrStopped
	}
	if p.started {
		return fmt.Errorf("processor is already running")
	}

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.started = true

	logrus.Infof("Processor started with %d workers, queue size %d", p.workers, cap(p.queue))
	return nil
}

// Submit schedules an attempt without waiting for it to run
func (p *Processor) Submit(job models.RawIntake) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrStopped
	}

	select {
	case p.queue <- job:
		p.deps.Metrics.QueueDepth.Set(float64(len(p.queue)))
		return nil
	default:
		return ErrQueueFull
	}
}

// QueueDepth returns the number of attempts waiting for a worker
func (p *Processor) QueueDepth() int {
	return len(p.queue)
}

// IsRunning reports whether workers are accepting work
func (p *Processor) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.started && !p.stopped
}

// Stop refuses new work and drains the queue. In-flight attempts are
// cancelled if they have not finished within timeout.
func (p *Processor) Stop(timeout time.Duration) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		logrus.Info("Processor stopped gracefully")
		return nil
	case <-time.After(timeout):
		logrus.Warn("Processor stop timeout, cancelling in-flight attempts")
		p.cancel()
		<-done
		return fmt.Errorf("processor did not drain within %s", timeout)
	}
}

func (p *Processor) worker(n int) {
	defer p.wg.Done()
	for job := range p.queue {
		p.deps.Metrics.QueueDepth.Set(float64(len(p.queue)))
		p.run(job)
	}
	logrus.Debugf("Processor worker %d exited", n)
}

func (p *Processor) run(job models.RawIntake) {
	defer func() {
		if r := recover(); r != nil {
			p.fail(job, StepPanic, fmt.Errorf("recovered: %v", r))
		}
	}()
	_ = p.Process(p.ctx, job)
}

// Process performs one attempt of the unit of work. Failures are logged,
// recorded and returned as *StepError; nothing is retried here. A failure
// to mark the ledger after a successful dispatch is logged only.
func (p *Processor) Process(ctx context.Context, job models.RawIntake) error {
	start := time.Now()
	defer func() {
		p.deps.Metrics.ProcessingDuration.Observe(time.Since(start).Seconds())
	}()

	log := logrus.WithFields(logrus.Fields{
		"message_id": job.MessageID,
		"attempt":    job.Attempt,
	})
	log.Info("Processing attempt started")

	form, warnings := p.deps.Normalizer.Normalize(job.Payload)
	if form == nil {
		return p.fail(job, StepNormalize, ErrNoFormData)
	}
	form.MessageID = job.MessageID
	form.ReceivedAt = job.ReceivedAt
	if len(warnings) > 0 {
		log.WithField("warnings", warnings).Warn("Form data quality warnings")
	}

	profile, err := p.deps.Generator.Generate(ctx, form)
	if err != nil {
		return p.fail(job, StepGenerate, err)
	}
	if profile == nil {
		return p.fail(job, StepGenerate, ErrNoProfile)
	}
	profile.SourceMessageID = job.MessageID
	profile.Warnings = warnings

	receipt, err := p.deps.Dispatcher.Send(ctx, profile)
	if err != nil {
		return p.fail(job, StepDispatch, err)
	}
	if receipt == nil {
		return p.fail(job, StepDispatch, ErrNoReceipt)
	}

	bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bookkeepingTimeout)
	defer cancel()

	if err := p.deps.Ledger.MarkProcessed(bctx, job.MessageID); err != nil {
		p.deps.Metrics.LedgerErrors.WithLabelValues("mark_processed").Inc()
		log.WithError(err).Error("Failed to mark message processed; a redelivery may repeat side effects")
	} else {
		p.deps.Completed.Add(job.MessageID)
	}

	p.record(bctx, job, models.AttemptSucceeded, "", nil)
	p.deps.Metrics.ProcessingRuns.WithLabelValues("succeeded", "").Inc()

	log.WithFields(logrus.Fields{
		"outcome":   "succeeded",
		"email_id":  receipt.ID,
		"duration":  time.Since(start).Seconds(),
		"recipient": receipt.Recipient,
	}).Info("Processing attempt completed")
	return nil
}

func (p *Processor) fail(job models.RawIntake, step Step, err error) error {
	logrus.WithFields(logrus.Fields{
		"message_id": job.MessageID,
		"attempt":    job.Attempt,
		"step":       step,
		"outcome":    "failed",
	}).WithError(err).Error("Processing attempt failed")

	p.deps.Metrics.ProcessingRuns.WithLabelValues("failed", string(step)).Inc()

	ctx, cancel := context.WithTimeout(context.Background(), bookkeepingTimeout)
	defer cancel()
	p.record(ctx, job, models.AttemptFailed, step, err)

	return &StepError{Step: step, Err: err}
}

func (p *Processor) record(ctx context.Context, job models.RawIntake, outcome string, step Step, err error) {
	if p.deps.Audit == nil {
		return
	}
	entry := models.AttemptLog{
		MessageID: job.MessageID,
		Attempt:   job.Attempt,
		Outcome:   outcome,
		Step:      string(step),
	}
	if err != nil {
		entry.ErrorMsg = err.Error()
	}
	if auditErr := p.deps.Audit.RecordAttempt(ctx, entry); auditErr != nil {
		logrus.WithField("message_id", job.MessageID).WithError(auditErr).Warn("Failed to record attempt")
	}
}
