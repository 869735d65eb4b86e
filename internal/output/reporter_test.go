package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/provisioner/internal/config"
	"github.com/wesleyorama2/provisioner/internal/metrics"
	"github.com/wesleyorama2/provisioner/internal/provision"
)

func TestReporter_Lines(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, true)

	r.Start(config.Default())
	r.SignupFailed(&provision.SignupError{Username: "user00001", Err: errors.New("connection refused")})
	r.LoginSucceeded(1, "user00001")
	r.LoginFailed(&provision.LoginError{
		Username: "user00002",
		Kind:     provision.LoginMissingToken,
		Body:     `{"data": {}}`,
		Reasons:  []string{"validation error at /data: missing properties: 'token'"},
		Err:      provision.ErrMissingToken,
	})
	r.LoginFailed(&provision.LoginError{
		Username: "user00037",
		Kind:     provision.LoginTransport,
		Err:      errors.New("context deadline exceeded"),
	})
	r.Throttled(100, time.Second)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "ℹ provisioning user00001..user10000 via http://127.0.0.1:8084", lines[0])
	assert.Equal(t, "✗ signup failed: user00001, error: connection refused", lines[1])
	assert.Equal(t, "✓ user00001 token acquired", lines[2])
	assert.Equal(t, `⚠ user00002 login failed, response: {"data": {}}`, lines[3])
	assert.Equal(t, "    validation error at /data: missing properties: 'token'", lines[4])
	assert.Equal(t, "✗ user00037 login error: context deadline exceeded", lines[5])
	assert.Equal(t, "ℹ 100 accounts processed, pausing 1s", lines[6])
}

func TestReporter_Summary(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, true)

	rec := metrics.NewRecorder()
	rec.Record(metrics.StepSignup, metrics.Sample{
		Total:     3 * time.Millisecond,
		Connect:   500 * time.Microsecond,
		FirstByte: 2 * time.Millisecond,
	}, metrics.OutcomeOK)
	rec.Record(metrics.StepLogin, metrics.Sample{
		Total:     4 * time.Millisecond,
		FirstByte: 3 * time.Millisecond,
		Reused:    true,
	}, metrics.OutcomeOK)
	rec.Record(metrics.StepLogin, metrics.Sample{}, metrics.OutcomeError)

	res := &provision.Result{
		Tokens:      []string{"a"},
		Attempts:    2,
		LoginErrors: 1,
		Elapsed:     1500 * time.Millisecond,
	}
	r.Summary(res, "tokens.txt", rec.Snapshot())

	out := buf.String()
	assert.Contains(t, out, "✓ saved 1 tokens to tokens.txt")
	assert.Contains(t, out, "attempts: 2, signup errors: 0, login failures: 0, login errors: 1, pauses: 0, elapsed: 1.5s")
	assert.Contains(t, out, "signup  n=1")
	assert.Contains(t, out, "login   n=2")
	assert.Contains(t, out, "mean=3.0ms p50=3.0ms")
	assert.Contains(t, out, "ttfb p50=2.0ms p95=2.0ms connect p50=500µs reused=0/1")
	assert.Contains(t, out, "ttfb p50=3.0ms p95=3.0ms connect p50=- reused=1/1")
	assert.Less(t, strings.Index(out, "signup  n="), strings.Index(out, "login   n="))
}

func TestReporter_ColorSchemeSelection(t *testing.T) {
	assert.True(t, NewReporter(&bytes.Buffer{}, true).noColor)
	assert.False(t, NewReporter(&bytes.Buffer{}, false).noColor)
}

func TestFormatLatency(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "-"},
		{250 * time.Microsecond, "250µs"},
		{12500 * time.Microsecond, "12.5ms"},
		{2345 * time.Millisecond, "2.35s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatLatency(tt.in))
	}
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf))
	assert.False(t, ColorEnabled(&buf, false))
	assert.False(t, ColorEnabled(&buf, true))
}

func TestIcons(t *testing.T) {
	assert.Equal(t, "✓", SuccessIcon(true))
	assert.Equal(t, "✗", ErrorIcon(true))
	assert.Equal(t, "⚠", WarningIcon(true))
	assert.Equal(t, "ℹ", InfoIcon(true))
}
