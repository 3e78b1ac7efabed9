package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/config"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/ledger/ledgertest"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/metrics"
)

type fakePruner struct {
	cutoff  time.Time
	removed int64
	err     error
	calls   int
}

func (p *fakePruner) PruneProcessed(_ context.Context, before time.Time) (int64, error) {
	p.calls++
	p.cutoff = before
	return p.removed, p.err
}

func TestRunOnceUsesRetentionWindow(t *testing.T) {
	pruner := &fakePruner{removed: 3}
	m := metrics.NewMetricsWith(prometheus.NewRegistry())
	s := NewScheduler(config.RetentionConfig{Days: 7, IntervalMinutes: 60}, pruner, m)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	removed, err := s.RunOnce()
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)
	assert.Equal(t, now.AddDate(0, 0, -7), pruner.cutoff)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.PrunedRecords))
}

func TestRunOnceReportsFailure(t *testing.T) {
	pruner := &fakePruner{err: errors.New("db down")}
	m := metrics.NewMetricsWith(prometheus.NewRegistry())
	s := NewScheduler(config.RetentionConfig{Days: 1, IntervalMinutes: 60}, pruner, m)

	_, err := s.RunOnce()
	assert.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LedgerErrors.WithLabelValues("prune_processed")))
}

func TestDisabledRetention(t *testing.T) {
	pruner := &fakePruner{}
	s := NewScheduler(config.RetentionConfig{Days: 0, IntervalMinutes: 60}, pruner, metrics.NewMetricsWith(prometheus.NewRegistry()))

	require.NoError(t, s.Start())
	assert.False(t, s.IsRunning())

	removed, err := s.RunOnce()
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Zero(t, pruner.calls)
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(config.RetentionConfig{Days: 30, IntervalMinutes: 15}, &fakePruner{}, metrics.NewMetricsWith(prometheus.NewRegistry()))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.False(t, s.GetNextRun().IsZero())
	assert.True(t, s.GetLastRun().IsZero())

	require.NoError(t, s.Stop())
	s.Wait()
	assert.False(t, s.IsRunning())
	assert.True(t, s.GetNextRun().IsZero())
}

func TestInvalidInterval(t *testing.T) {
	s := NewScheduler(config.RetentionConfig{Days: 30, IntervalMinutes: 0}, &fakePruner{}, metrics.NewMetricsWith(prometheus.NewRegistry()))
	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestRunOnceAgainstLedger(t *testing.T) {
	l, _ := ledgertest.New(t)
	ctx := context.Background()

	_, err := l.CheckAndIncrement(ctx, "old")
	require.NoError(t, err)
	require.NoError(t, l.MarkProcessed(ctx, "old"))
	_, err = l.CheckAndIncrement(ctx, "pending")
	require.NoError(t, err)

	s := NewScheduler(config.RetentionConfig{Days: 1, IntervalMinutes: 60}, l, metrics.NewMetricsWith(prometheus.NewRegistry()))
	s.now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	removed, err := s.RunOnce()
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, err = l.Get(ctx, "pending")
	assert.NoError(t, err)
}
