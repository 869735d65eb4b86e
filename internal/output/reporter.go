// Package output prints human-readable progress for a provisioning run.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wesleyorama2/provisioner/internal/config"
	"github.com/wesleyorama2/provisioner/internal/metrics"
	"github.com/wesleyorama2/provisioner/internal/provision"
)

// Reporter writes one line per event. It implements provision.Observer.
type Reporter struct {
	out     io.Writer
	noColor bool
	scheme  *ColorScheme
}

var _ provision.Observer = (*Reporter)(nil)

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer, noColor bool) *Reporter {
	scheme := DefaultColorScheme()
	if noColor {
		scheme = NoColorScheme()
	}
	return &Reporter{out: out, noColor: noColor, scheme: scheme}
}

func (r *Reporter) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}

// Start announces the run.
func (r *Reporter) Start(cfg config.Config) {
	r.printf("%s provisioning %s..%s via %s\n",
		InfoIcon(r.noColor),
		provision.Username(cfg.UserPrefix, cfg.Start),
		provision.Username(cfg.UserPrefix, cfg.End()),
		r.scheme.Highlight.Sprint(cfg.BaseURL))
}

// SignupFailed reports a signup that could not complete. Login still follows.
func (r *Reporter) SignupFailed(err *provision.SignupError) {
	r.printf("%s signup failed: %s, error: %s\n",
		ErrorIcon(r.noColor),
		r.scheme.Username.Sprint(err.Username),
		r.scheme.Error.Sprint(err.Err))
}

// LoginSucceeded reports a collected token.
func (r *Reporter) LoginSucceeded(_ int, username string) {
	r.printf("%s %s token acquired\n",
		SuccessIcon(r.noColor),
		r.scheme.Username.Sprint(username))
}

// LoginFailed reports a login without a token.
func (r *Reporter) LoginFailed(err *provision.LoginError) {
	if err.Kind != provision.LoginMissingToken {
		r.printf("%s %s login error: %s\n",
			ErrorIcon(r.noColor),
			r.scheme.Username.Sprint(err.Username),
			r.scheme.Error.Sprint(err.Err))
		return
	}

	r.printf("%s %s login failed, response: %s\n",
		WarningIcon(r.noColor),
		r.scheme.Username.Sprint(err.Username),
		r.scheme.Failure.Sprint(err.Body))
	if len(err.Reasons) > 0 {
		r.printf("    %s\n", r.scheme.Muted.Sprint(strings.Join(err.Reasons, "; ")))
	}
}

// Throttled reports the periodic pause.
func (r *Reporter) Throttled(processed int, pause time.Duration) {
	r.printf("%s %d accounts processed, pausing %s\n",
		InfoIcon(r.noColor), processed, pause)
}

// Summary prints the final count and the per-step latency table.
func (r *Reporter) Summary(res *provision.Result, path string, steps []metrics.StepSnapshot) {
	r.printf("\n%s saved %s tokens to %s\n",
		SuccessIcon(r.noColor),
		r.scheme.Highlight.Sprint(len(res.Tokens)),
		path)

	r.printf("  attempts: %d, signup errors: %d, login failures: %d, login errors: %d, pauses: %d, elapsed: %s\n",
		res.Attempts, res.SignupErrors, res.LoginFailures, res.LoginErrors, res.Pauses,
		res.Elapsed.Round(time.Millisecond))

	for _, s := range steps {
		r.printf("  %-7s n=%-6d ok=%-6d failed=%-6d errors=%-6d mean=%s p50=%s p95=%s p99=%s max=%s\n",
			s.Step, s.Total(), s.OK, s.Failed, s.Errors, formatLatency(s.Mean),
			formatLatency(s.P50), formatLatency(s.P95), formatLatency(s.P99), formatLatency(s.Max))
		if s.Measured > 0 {
			r.printf("  %-7s ttfb p50=%s p95=%s connect p50=%s reused=%d/%d\n",
				"", formatLatency(s.FirstByteP50), formatLatency(s.FirstByteP95),
				formatLatency(s.ConnectP50), s.Reused, s.Measured)
		}
	}
}

func formatLatency(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000)
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}
