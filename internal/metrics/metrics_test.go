package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics()
	m.ObserveCheck(ResultNoMatch, 200*time.Millisecond)
	m.ObserveCheck(ResultNoMatch, 300*time.Millisecond)
	m.ObserveCheck(ResultMatch, 100*time.Millisecond)
	m.ObserveAlert(true)
	m.ObserveAlert(false)
	m.SetAlerting(true)

	out := scrape(t, m)
	assert.Contains(t, out, `ticketwatch_checks_total{result="no_match"} 2`)
	assert.Contains(t, out, `ticketwatch_checks_total{result="match"} 1`)
	assert.Contains(t, out, `ticketwatch_alerts_total{result="sent"} 1`)
	assert.Contains(t, out, `ticketwatch_alerts_total{result="failed"} 1`)
	assert.Contains(t, out, "ticketwatch_alerting 1")
	assert.Contains(t, out, "ticketwatch_check_duration_seconds_count 3")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCheck(ResultError, time.Second)
		m.ObserveAlert(true)
		m.SetAlerting(false)
	})
}
