// Package metrics records per-step latency and outcome counts for a
// provisioning run.
//
// A Recorder is used from the single provisioning loop and is not safe
// for concurrent use.
package metrics

import (
	"sort"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Step names the request a measurement belongs to.
type Step string

const (
	StepSignup Step = "signup"
	StepLogin  Step = "login"
)

// Outcome classifies how a step ended.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeFailed
	OutcomeError
)

// Histogram range: 1 microsecond to 1 hour, 3 significant figures.
const (
	histogramMin     = 1
	histogramMax     = 3600000000
	histogramSigFigs = 3
)

type stepStats struct {
	hist      *hdrhistogram.Histogram
	connect   *hdrhistogram.Histogram
	firstByte *hdrhistogram.Histogram
	ok        int64
	failed    int64
	errors    int64
	reused    int64
}

// Recorder aggregates latencies into one HDR histogram per step.
type Recorder struct {
	steps map[Step]*stepStats
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{steps: make(map[Step]*stepStats)}
}

func (r *Recorder) step(s Step) *stepStats {
	st, ok := r.steps[s]
	if !ok {
		st = &stepStats{
			hist:      newHistogram(),
			connect:   newHistogram(),
			firstByte: newHistogram(),
		}
		r.steps[s] = st
	}
	return st
}

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)
}

// Sample is the timing of one request. Requests that never got a response
// pass the zero Sample, in which case only the outcome is counted.
// Connect is zero when an idle connection was reused.
type Sample struct {
	Total     time.Duration
	Connect   time.Duration
	FirstByte time.Duration
	Reused    bool
}

// Record adds one measurement.
func (r *Recorder) Record(s Step, sample Sample, outcome Outcome) {
	st := r.step(s)

	switch outcome {
	case OutcomeOK:
		st.ok++
	case OutcomeFailed:
		st.failed++
	default:
		st.errors++
	}

	if sample.Total <= 0 {
		return
	}
	recordValue(st.hist, sample.Total)
	if sample.FirstByte > 0 {
		recordValue(st.firstByte, sample.FirstByte)
	}
	if sample.Reused {
		st.reused++
	} else if sample.Connect > 0 {
		recordValue(st.connect, sample.Connect)
	}
}

func recordValue(h *hdrhistogram.Histogram, d time.Duration) {
	us := d.Microseconds()
	if us < histogramMin {
		us = histogramMin
	}
	if us > histogramMax {
		us = histogramMax
	}
	_ = h.RecordValue(us)
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}

// StepSnapshot summarises one step.
type StepSnapshot struct {
	Step     Step
	OK       int64
	Failed   int64
	Errors   int64
	Measured int64
	Mean     time.Duration
	P50      time.Duration
	P95      time.Duration
	P99      time.Duration
	Max      time.Duration

	// Reused counts requests served on an idle keep-alive connection;
	// ConnectP50 covers only the others.
	Reused       int64
	ConnectP50   time.Duration
	FirstByteP50 time.Duration
	FirstByteP95 time.Duration
}

// Total is every attempt of the step regardless of outcome.
func (s StepSnapshot) Total() int64 {
	return s.OK + s.Failed + s.Errors
}

// Snapshot returns one entry per recorded step in reverse name order, so
// signup comes before login.
func (r *Recorder) Snapshot() []StepSnapshot {
	out := make([]StepSnapshot, 0, len(r.steps))
	for name, st := range r.steps {
		out = append(out, StepSnapshot{
			Step:     name,
			OK:       st.ok,
			Failed:   st.failed,
			Errors:   st.errors,
			Measured: st.hist.TotalCount(),
			Mean:     time.Duration(st.hist.Mean() * float64(time.Microsecond)),
			P50:      micros(st.hist.ValueAtQuantile(50)),
			P95:      micros(st.hist.ValueAtQuantile(95)),
			P99:      micros(st.hist.ValueAtQuantile(99)),
			Max:      micros(st.hist.Max()),

			Reused:       st.reused,
			ConnectP50:   micros(st.connect.ValueAtQuantile(50)),
			FirstByteP50: micros(st.firstByte.ValueAtQuantile(50)),
			FirstByteP95: micros(st.firstByte.ValueAtQuantile(95)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Step > out[j].Step })
	return out
}
