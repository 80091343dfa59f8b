package monitor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aleister1102/ticketwatch/internal/config"
	"github.com/aleister1102/ticketwatch/internal/console"
	"github.com/aleister1102/ticketwatch/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	results []bool
	errs    []error
	calls   int
	onCall  func(n int)
}

func (f *fakeChecker) Check(ctx context.Context) (bool, error) {
	f.calls++
	if f.onCall != nil {
		f.onCall(f.calls)
	}
	i := f.calls - 1
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if i < len(f.results) {
		return f.results[i], err
	}
	return false, err
}

type fakeNotifier struct {
	seqs   []int
	failOn map[int]bool
}

func (f *fakeNotifier) Notify(ctx context.Context, seq int) error {
	f.seqs = append(f.seqs, seq)
	if f.failOn[seq] {
		return errors.New("smtp down")
	}
	return nil
}

type recordingWait struct {
	waits []time.Duration
}

func (r *recordingWait) wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.waits = append(r.waits, d)
	return nil
}

func newTestScheduler(checker PageChecker, notifier AlertNotifier, wait WaitFunc) (*Scheduler, *bytes.Buffer) {
	var buf bytes.Buffer
	s := NewScheduler(config.NewDefaultMonitorConfig(), config.NewDefaultTargetConfig(), checker, notifier, console.New(&buf), zerolog.Nop())
	return s.WithWaitFunc(wait), &buf
}

func TestScheduler_FullBurst(t *testing.T) {
	checker := &fakeChecker{results: []bool{false, false, true}}
	notifier := &fakeNotifier{}
	rec := &recordingWait{}
	s, out := newTestScheduler(checker, notifier, rec.wait)

	summary, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, notifier.seqs)
	assert.Equal(t, 3, checker.calls)
	assert.Equal(t, RunSummary{
		Checks:     3,
		Attempted:  12,
		Sent:       12,
		Failed:     0,
		State:      StateCompleted,
		DetectedAt: summary.DetectedAt,
	}, summary)
	assert.False(t, summary.DetectedAt.IsZero())

	// two check waits, then eleven reminder waits
	require.Len(t, rec.waits, 13)
	for _, d := range rec.waits {
		assert.Equal(t, 300*time.Second, d)
	}

	text := out.String()
	assert.Contains(t, text, "🎉 TICKETS FOUND! 🎉")
	assert.Contains(t, text, "⚠️  Sending reminder email 12/12...")
	assert.Equal(t, 11, strings.Count(text, "Sending reminder email "))
	assert.Contains(t, text, "Alert sequence completed. Monitoring stopped.")
}

func TestScheduler_WaitPatternDistinguishesIntervals(t *testing.T) {
	checker := &fakeChecker{results: []bool{false, true}}
	notifier := &fakeNotifier{}
	rec := &recordingWait{}

	cfg := config.MonitorConfig{CheckIntervalSeconds: 7, ReminderIntervalSeconds: 3, AlertBurstSize: 4}
	s := NewScheduler(cfg, config.NewDefaultTargetConfig(), checker, notifier, nil, zerolog.Nop()).WithWaitFunc(rec.wait)

	_, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{7 * time.Second, 3 * time.Second, 3 * time.Second, 3 * time.Second}, rec.waits)
	assert.Equal(t, []int{1, 2, 3, 4}, notifier.seqs)
}

func TestScheduler_FailuresDoNotStopBurst(t *testing.T) {
	checker := &fakeChecker{results: []bool{true}}
	notifier := &fakeNotifier{failOn: map[int]bool{1: true, 5: true, 12: true}}
	rec := &recordingWait{}
	s, _ := newTestScheduler(checker, notifier, rec.wait)

	summary, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, notifier.seqs, 12)
	assert.Equal(t, 12, summary.Attempted)
	assert.Equal(t, 9, summary.Sent)
	assert.Equal(t, 3, summary.Failed)
	assert.Equal(t, 1, checker.calls)
}

func TestScheduler_CheckErrorsAreNoMatch(t *testing.T) {
	fetchErr := &FetchError{Kind: FetchErrorTimeout, URL: "http://x", Err: context.DeadlineExceeded}
	checker := &fakeChecker{
		results: []bool{false, false, true},
		errs:    []error{fetchErr, fetchErr},
	}
	notifier := &fakeNotifier{}
	rec := &recordingWait{}
	s, _ := newTestScheduler(checker, notifier, rec.wait)

	summary, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Checks)
	assert.Equal(t, StateCompleted, summary.State)
}

func TestScheduler_CancelWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checker := &fakeChecker{onCall: func(n int) {
		if n == 3 {
			cancel()
		}
	}}
	notifier := &fakeNotifier{}
	rec := &recordingWait{}
	s, _ := newTestScheduler(checker, notifier, rec.wait)

	summary, err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateStopped, summary.State)
	assert.Equal(t, 3, summary.Checks)
	assert.Empty(t, notifier.seqs)
}

func TestScheduler_CancelDuringBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checker := &fakeChecker{results: []bool{true}}
	notifier := &fakeNotifier{}
	waits := 0
	wait := func(ctx context.Context, d time.Duration) error {
		waits++
		if waits == 3 {
			cancel()
			return ctx.Err()
		}
		return nil
	}
	s, out := newTestScheduler(checker, notifier, wait)

	summary, err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{1, 2, 3}, notifier.seqs)
	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, StateStopped, summary.State)
	assert.NotContains(t, out.String(), "Alert sequence completed")
}

func TestScheduler_PanicBecomesError(t *testing.T) {
	checker := &fakeChecker{onCall: func(int) { panic("bad page") }}
	s, _ := newTestScheduler(checker, &fakeNotifier{}, (&recordingWait{}).wait)

	summary, err := s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad page")
	assert.Equal(t, StateStopped, summary.State)
}

func TestScheduler_SingleEmailBurst(t *testing.T) {
	checker := &fakeChecker{results: []bool{true}}
	notifier := &fakeNotifier{}
	rec := &recordingWait{}
	cfg := config.MonitorConfig{CheckIntervalSeconds: 1, ReminderIntervalSeconds: 1, AlertBurstSize: 1}
	s := NewScheduler(cfg, config.NewDefaultTargetConfig(), checker, notifier, nil, zerolog.Nop()).WithWaitFunc(rec.wait)

	summary, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, notifier.seqs)
	assert.Empty(t, rec.waits)
	assert.Equal(t, StateCompleted, summary.State)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, SleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.ErrorIs(t, SleepContext(ctx, time.Hour), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestScheduler_RecordsMetrics(t *testing.T) {
	m := metrics.NewMetrics()
	checker := &fakeChecker{
		results: []bool{false, false, true},
		errs:    []error{errors.New("refused")},
	}
	notifier := &fakeNotifier{failOn: map[int]bool{2: true}}
	s, _ := newTestScheduler(checker, notifier, (&recordingWait{}).wait)

	_, err := s.WithMetrics(m).Run(context.Background())
	require.NoError(t, err)

	server := httptest.NewServer(m.Handler())
	defer server.Close()
	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `ticketwatch_checks_total{result="error"} 1`)
	assert.Contains(t, out, `ticketwatch_checks_total{result="no_match"} 1`)
	assert.Contains(t, out, `ticketwatch_checks_total{result="match"} 1`)
	assert.Contains(t, out, `ticketwatch_alerts_total{result="sent"} 11`)
	assert.Contains(t, out, `ticketwatch_alerts_total{result="failed"} 1`)
	assert.Contains(t, out, "ticketwatch_alerting 0")
}
