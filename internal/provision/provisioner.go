package provision

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wesleyorama2/provisioner/internal/config"
	"github.com/wesleyorama2/provisioner/internal/http"
	"github.com/wesleyorama2/provisioner/internal/metrics"
	"github.com/wesleyorama2/provisioner/pkg/jsonpath"
	"github.com/wesleyorama2/provisioner/pkg/jsonschema"
)

// TokenPath is where the login response carries the token.
const TokenPath = "$.data.token"

// LoginResponseSchema is the shape a login response must have to yield a token.
const LoginResponseSchema = `{
	"type": "object",
	"required": ["data"],
	"properties": {
		"data": {
			"type": "object",
			"required": ["token"],
			"properties": {
				"token": {"not": {"type": "null"}}
			}
		}
	}
}`

var loginSchema = jsonschema.MustCompile(LoginResponseSchema)

// Observer is told about every notable event of a run, in order.
type Observer interface {
	SignupFailed(err *SignupError)
	LoginSucceeded(seq int, username string)
	LoginFailed(err *LoginError)
	Throttled(processed int, pause time.Duration)
}

type nopObserver struct{}

func (nopObserver) SignupFailed(*SignupError)    {}
func (nopObserver) LoginSucceeded(int, string)   {}
func (nopObserver) LoginFailed(*LoginError)      {}
func (nopObserver) Throttled(int, time.Duration) {}

// SleepFunc pauses the run. It returns early with ctx.Err() when ctx ends.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Result is what a run collected.
type Result struct {
	// Tokens in sequence order, one per successful login.
	Tokens        []string
	Attempts      int
	SignupErrors  int
	LoginFailures int
	LoginErrors   int
	Pauses        int
	Elapsed       time.Duration
}

// Provisioner runs the signup/login loop.
type Provisioner struct {
	cfg      config.Config
	client   *http.Client
	observer Observer
	sleep    SleepFunc
	recorder *metrics.Recorder
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithClient replaces the HTTP client built from the config.
func WithClient(c *http.Client) Option {
	return func(p *Provisioner) {
		p.client = c
	}
}

// WithObserver sets the event sink, typically an output.Reporter.
func WithObserver(o Observer) Option {
	return func(p *Provisioner) {
		p.observer = o
	}
}

// WithSleep replaces the throttle pause.
func WithSleep(fn SleepFunc) Option {
	return func(p *Provisioner) {
		p.sleep = fn
	}
}

// WithRecorder records request latencies into r.
func WithRecorder(r *metrics.Recorder) Option {
	return func(p *Provisioner) {
		p.recorder = r
	}
}

// New creates a Provisioner for cfg. cfg is expected to be valid.
func New(cfg config.Config, opts ...Option) *Provisioner {
	p := &Provisioner{
		cfg:      cfg,
		observer: nopObserver{},
		sleep:    sleepContext,
		recorder: metrics.NewRecorder(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.client == nil {
		p.client = http.NewClient(
			http.WithBaseURL(cfg.BaseURL),
			http.WithTimeout(cfg.Timeout),
		)
	}

	return p
}

// Recorder returns the latency recorder in use.
func (p *Provisioner) Recorder() *metrics.Recorder {
	return p.recorder
}

// Run provisions every account of the configured range. Request failures are
// reported and skipped; the only error returned is ctx's, together with
// whatever was collected before it ended.
func (p *Provisioner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{Tokens: make([]string, 0, p.cfg.Count)}
	defer func() { res.Elapsed = time.Since(start) }()

	for seq := p.cfg.Start; seq <= p.cfg.End(); seq++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		cred := NewCredential(p.cfg.UserPrefix, seq, p.cfg.Password)
		res.Attempts++

		// The account may already exist; login is attempted either way.
		if serr := p.signup(ctx, cred); serr != nil {
			res.SignupErrors++
			p.observer.SignupFailed(serr)
		}

		token, lerr := p.login(ctx, cred)
		switch {
		case lerr == nil:
			res.Tokens = append(res.Tokens, token)
			p.observer.LoginSucceeded(seq, cred.Username)
		case lerr.Kind == LoginMissingToken:
			res.LoginFailures++
			p.observer.LoginFailed(lerr)
		default:
			res.LoginErrors++
			p.observer.LoginFailed(lerr)
		}

		if p.shouldPause(res.Attempts) {
			res.Pauses++
			p.observer.Throttled(res.Attempts, p.cfg.ThrottlePause)
			if err := p.sleep(ctx, p.cfg.ThrottlePause); err != nil {
				return res, err
			}
		}
	}

	return res, nil
}

// shouldPause counts iterations of this run, so the pause cadence does not
// depend on where the range starts.
func (p *Provisioner) shouldPause(processed int) bool {
	return p.cfg.ThrottleEvery > 0 && processed%p.cfg.ThrottleEvery == 0
}

// signup only fails on transport errors and non-JSON bodies. Status codes and
// "user exists" answers count as done.
func (p *Provisioner) signup(ctx context.Context, cred Credential) *SignupError {
	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	req := http.NewJSONRequest("POST", p.cfg.SignupPath, cred.signupBody())
	resp, err := p.client.Do(reqCtx, req)
	if err != nil {
		p.recorder.Record(metrics.StepSignup, metrics.Sample{}, metrics.OutcomeError)
		return &SignupError{Username: cred.Username, Err: err}
	}

	body, _ := resp.GetBody()
	if !jsonpath.Valid(body) {
		p.recorder.Record(metrics.StepSignup, sampleOf(resp), metrics.OutcomeError)
		return &SignupError{Username: cred.Username, Err: ErrNonJSONBody}
	}

	outcome := metrics.OutcomeOK
	if !resp.IsSuccess() {
		outcome = metrics.OutcomeFailed
	}
	p.recorder.Record(metrics.StepSignup, sampleOf(resp), outcome)
	return nil
}

func (p *Provisioner) login(ctx context.Context, cred Credential) (string, *LoginError) {
	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	req := http.NewJSONRequest("POST", p.cfg.LoginPath, cred.loginBody())
	resp, err := p.client.Do(reqCtx, req)
	if err != nil {
		p.recorder.Record(metrics.StepLogin, metrics.Sample{}, metrics.OutcomeError)
		return "", &LoginError{Username: cred.Username, Kind: LoginTransport, Err: err}
	}

	body, _ := resp.GetBodyAsString()
	token, err := jsonpath.Extract(body, TokenPath)
	if err == nil {
		if strings.ContainsAny(token, "\r\n") {
			p.recorder.Record(metrics.StepLogin, sampleOf(resp), metrics.OutcomeFailed)
			return "", &LoginError{
				Username: cred.Username,
				Kind:     LoginBadToken,
				Body:     strings.TrimSpace(body),
				Err:      ErrMultilineToken,
			}
		}
		p.recorder.Record(metrics.StepLogin, sampleOf(resp), metrics.OutcomeOK)
		return token, nil
	}

	if errors.Is(err, jsonpath.ErrInvalidJSON) {
		p.recorder.Record(metrics.StepLogin, sampleOf(resp), metrics.OutcomeError)
		return "", &LoginError{
			Username: cred.Username,
			Kind:     LoginDecode,
			Body:     body,
			Err:      ErrNonJSONBody,
		}
	}

	p.recorder.Record(metrics.StepLogin, sampleOf(resp), metrics.OutcomeFailed)
	lerr := &LoginError{
		Username: cred.Username,
		Kind:     LoginMissingToken,
		Body:     strings.TrimSpace(body),
		Err:      ErrMissingToken,
	}
	if msg, err := jsonpath.Extract(body, "$.msg"); err == nil {
		lerr.Message = msg
	}
	for _, reason := range loginSchema.Check(body) {
		lerr.Reasons = append(lerr.Reasons, reason.Error())
	}
	return "", lerr
}

func sampleOf(resp *http.Response) metrics.Sample {
	return metrics.Sample{
		Total:     resp.Elapsed(),
		Connect:   resp.Timing.ConnectTime,
		FirstByte: resp.Timing.TimeToFirstByte,
		Reused:    resp.Timing.ReusedConn,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
