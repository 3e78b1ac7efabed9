package intake

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/ledger"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/ledger/ledgertest"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/metrics"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/models"
)

type recordingScheduler struct {
	mu   sync.Mutex
	jobs []models.RawIntake
	err  error
}

func (s *recordingScheduler) Submit(job models.RawIntake) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, job)
	return nil
}

func (s *recordingScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

type fixture struct {
	svc     *Service
	ledger  *ledger.GormLedger
	db      *gorm.DB
	sched   *recordingScheduler
	metrics *metrics.Metrics
	cache   *ledger.CompletedCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	l, conn := ledgertest.New(t)
	f := &fixture{
		ledger:  l,
		db:      conn,
		sched:   &recordingScheduler{},
		metrics: metrics.NewMetricsWith(prometheus.NewRegistry()),
		cache:   ledger.NewCompletedCache(16),
	}
	f.svc = NewService(Deps{
		Ledger:    l,
		Audit:     l,
		Scheduler: f.sched,
		Completed: f.cache,
		Metrics:   f.metrics,
	}, Options{MaxAttempts: 5})
	return f
}

func envelope(t *testing.T, messageID string, payload any) []byte {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	body, err := json.Marshal(map[string]any{
		"message": map[string]any{
			"data":        base64.StdEncoding.EncodeToString(raw),
			"messageId":   messageID,
			"publishTime": "2024-01-01T00:00:00Z",
		},
		"subscription": "projects/demo/subscriptions/client-form-processor",
	})
	require.NoError(t, err)
	return body
}

var johnDoe = map[string]any{
	"client_name":  "John Doe",
	"email":        "john@example.com",
	"project_type": "Kitchen Remodel",
}

func TestFirstDeliverySchedules(t *testing.T) {
	f := newFixture(t)

	d := f.svc.Handle(context.Background(), envelope(t, "m1", johnDoe))
	assert.True(t, d.Ack)
	assert.Equal(t, OutcomeScheduled, d.Outcome)
	assert.Equal(t, 1, d.Attempt)

	require.Equal(t, 1, f.sched.count())
	job := f.sched.jobs[0]
	assert.Equal(t, "m1", job.MessageID)
	assert.Equal(t, 1, job.Attempt)
	assert.Equal(t, "John Doe", job.Payload["client_name"])
	assert.Equal(t, "pubsub", job.Source)
	assert.False(t, job.ReceivedAt.IsZero())

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Deliveries.WithLabelValues(string(OutcomeScheduled))))
}

func TestAttemptBudgetEnforced(t *testing.T) {
	f := newFixture(t)
	body := envelope(t, "m-budget", johnDoe)

	for i := 1; i <= 5; i++ {
		d := f.svc.Handle(context.Background(), body)
		require.Equal(t, OutcomeScheduled, d.Outcome)
		require.Equal(t, i, d.Attempt)
	}

	d := f.svc.Handle(context.Background(), body)
	assert.True(t, d.Ack)
	assert.Equal(t, OutcomeBudgetExhausted, d.Outcome)
	assert.Equal(t, 6, d.Attempt)
	assert.Equal(t, 5, f.sched.count(), "no work scheduled past the budget")

	entries, _, err := f.ledger.ListAttempts(context.Background(), ledger.AttemptFilter{MessageID: "m-budget"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AttemptAbandoned, entries[0].Outcome)
}

func TestUndecodablePayloadAcksWithoutScheduling(t *testing.T) {
	f := newFixture(t)

	bodies := map[string]string{
		"missing data": `{"message":{"messageId":"p1"}}`,
		"empty data":   `{"message":{"data":"","messageId":"p2"}}`,
		"bad base64":   `{"message":{"data":"%%%","messageId":"p3"}}`,
		"bad utf8":     `{"message":{"data":"` + base64.StdEncoding.EncodeToString([]byte{0xc3, 0x28}) + `","messageId":"p4"}}`,
		"not json":     `{"message":{"data":"` + base64.StdEncoding.EncodeToString([]byte("plain text")) + `","messageId":"p5"}}`,
		"no message":   `{"subscription":"s"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			d := f.svc.Handle(context.Background(), []byte(body))
			assert.True(t, d.Ack)
			assert.Contains(t, []Outcome{OutcomeEmptyPayload, OutcomeUndecodable}, d.Outcome)
		})
	}

	assert.Equal(t, 0, f.sched.count())
	var records int64
	require.NoError(t, f.db.Model(&models.ProcessingRecord{}).Count(&records).Error)
	assert.EqualValues(t, 0, records, "undecodable deliveries never touch the ledger")
}

func TestMalformedEnvelopeAcks(t *testing.T) {
	f := newFixture(t)

	for _, body := range []string{"not json at all", "", "[1,2,3]", "{"} {
		d := f.svc.Handle(context.Background(), []byte(body))
		assert.True(t, d.Ack, body)
		assert.Equal(t, OutcomeMalformedEnvelope, d.Outcome, body)
	}
	assert.Equal(t, 0, f.sched.count())
}

func TestLedgerOutageRequestsRedelivery(t *testing.T) {
	f := newFixture(t)
	ledgertest.Close(t, f.db)

	d := f.svc.Handle(context.Background(), envelope(t, "m1", johnDoe))
	assert.False(t, d.Ack)
	assert.Equal(t, OutcomeLedgerUnavailable, d.Outcome)
	assert.ErrorIs(t, d.Err, ledger.ErrUnavailable)
	assert.Equal(t, 0, f.sched.count())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LedgerErrors.WithLabelValues("check_and_increment")))
}

func TestDuplicateOfCompletedWork(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.CheckAndIncrement(ctx, "m1")
	require.NoError(t, err)
	require.NoError(t, f.ledger.MarkProcessed(ctx, "m1"))

	d := f.svc.Handle(ctx, envelope(t, "m1", johnDoe))
	assert.True(t, d.Ack)
	assert.Equal(t, OutcomeDuplicate, d.Outcome)
	assert.True(t, f.cache.Contains("m1"))

	// served from the process-local cache even if the store is gone
	ledgertest.Close(t, f.db)
	d = f.svc.Handle(ctx, envelope(t, "m1", johnDoe))
	assert.True(t, d.Ack)
	assert.Equal(t, OutcomeDuplicate, d.Outcome)

	assert.Equal(t, 0, f.sched.count())
}

func TestMissingMessageIDIsAlwaysNovel(t *testing.T) {
	f := newFixture(t)
	body := envelope(t, "", johnDoe)

	first := f.svc.Handle(context.Background(), body)
	second := f.svc.Handle(context.Background(), body)

	for _, d := range []Decision{first, second} {
		assert.True(t, d.Ack)
		assert.Equal(t, OutcomeScheduled, d.Outcome)
		assert.True(t, strings.HasPrefix(d.MessageID, "synthetic-"))
		assert.Equal(t, 1, d.Attempt)
	}
	assert.NotEqual(t, first.MessageID, second.MessageID)
	assert.Equal(t, 2, f.sched.count())
}

func TestScheduleFailureRequestsRedelivery(t *testing.T) {
	f := newFixture(t)
	f.sched.err = assert.AnError

	d := f.svc.Handle(context.Background(), envelope(t, "m1", johnDoe))
	assert.False(t, d.Ack)
	assert.Equal(t, OutcomeScheduleFailed, d.Outcome)

	record, err := f.ledger.Get(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, 1, record.Attempts, "the attempt stays counted")
}

func TestSourceAttribute(t *testing.T) {
	f := newFixture(t)
	body := []byte(`{"message":{"data":"` + base64.StdEncoding.EncodeToString([]byte(`{"name":"A"}`)) + `","messageId":"m1","attributes":{"source":"website"}}}`)

	d := f.svc.Handle(context.Background(), body)
	require.Equal(t, OutcomeScheduled, d.Outcome)
	assert.Equal(t, "website", f.sched.jobs[0].Source)
}

func TestCachedDuplicateLogsNoAttempt(t *testing.T) {
	f := newFixture(t)
	f.cache.Add("m1")

	hook := test.NewGlobal()
	t.Cleanup(hook.Reset)

	d := f.svc.Handle(context.Background(), envelope(t, "m1", johnDoe))
	require.Equal(t, OutcomeDuplicate, d.Outcome)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "m1", entry.Data["message_id"])
	assert.Equal(t, OutcomeDuplicate, entry.Data["outcome"])
	assert.NotContains(t, entry.Data, "attempt")

	d = f.svc.Handle(context.Background(), envelope(t, "m2", johnDoe))
	require.Equal(t, OutcomeScheduled, d.Outcome)
	assert.Equal(t, 1, hook.LastEntry().Data["attempt"])
}
