// Package report defines the immutable suite report produced at the end of
// a coordinator run, plus its persistence and rendering helpers.
package report

import (
	"math"
	"sort"
	"time"
)

// TaskResult is one task's terminal observation.
type TaskResult struct {
	TaskID     int     `yaml:"task_id"`
	ThreadID   int64   `yaml:"thread_id"`
	State      string  `yaml:"state"`
	Cause      string  `yaml:"cause,omitempty"`
	Detail     string  `yaml:"detail,omitempty"`
	Passed     bool    `yaml:"passed"`
	Cancelled  bool    `yaml:"cancelled,omitempty"`
	RoundTrips int     `yaml:"round_trips"`
	SourceArch string  `yaml:"source_arch"`
	SinkArch   string  `yaml:"sink_arch"`
	DurationMs float64 `yaml:"duration_ms"`
}

// Suite aggregates every task verdict of one run. It is immutable once the
// coordinator returns it.
type Suite struct {
	RunID      string       `yaml:"run_id"`
	Source     int          `yaml:"source"`
	Sink       int          `yaml:"sink"`
	Requested  int          `yaml:"requested"`
	StartedAt  time.Time    `yaml:"started_at"`
	FinishedAt time.Time    `yaml:"finished_at"`
	Passed     int          `yaml:"passed"`
	Failed     int          `yaml:"failed"`
	Cancelled  int          `yaml:"cancelled"`
	Tasks      []TaskResult `yaml:"tasks"`
}

// AllPassed reports whether every requested task reached a clean pass.
func (s *Suite) AllPassed() bool {
	return s.Failed == 0 && s.Cancelled == 0 && s.Passed == s.Requested
}

// NoFailures is the soak-mode success criterion: cancelled-in-flight tasks
// are the expected outcome there, only classified failures count against it.
func (s *Suite) NoFailures() bool {
	return s.Failed == 0
}

// FirstFailure returns the first failed task in task order, if any.
func (s *Suite) FirstFailure() (TaskResult, bool) {
	for _, t := range s.Tasks {
		if t.State == "FAILED" {
			return t, true
		}
	}
	return TaskResult{}, false
}

// DurationSummary is a basic statistics snapshot over task durations.
type DurationSummary struct {
	Count int
	AvgMs float64
	P95Ms float64
	MinMs float64
	MaxMs float64
}

// SummarizeDurations computes duration statistics across task results.
func SummarizeDurations(tasks []TaskResult) DurationSummary {
	if len(tasks) == 0 {
		return DurationSummary{}
	}

	values := make([]float64, 0, len(tasks))
	var sum float64
	minMs := math.MaxFloat64
	maxMs := 0.0
	for _, t := range tasks {
		values = append(values, t.DurationMs)
		sum += t.DurationMs
		if t.DurationMs < minMs {
			minMs = t.DurationMs
		}
		if t.DurationMs > maxMs {
			maxMs = t.DurationMs
		}
	}

	sort.Float64s(values)
	return DurationSummary{
		Count: len(values),
		AvgMs: sum / float64(len(values)),
		P95Ms: percentile(values, 0.95),
		MinMs: minMs,
		MaxMs: maxMs,
	}
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if p <= 0 {
		return values[0]
	}
	if p >= 1 {
		return values[len(values)-1]
	}
	idx := int(math.Ceil(p*float64(len(values)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(values) {
		idx = len(values) - 1
	}
	return values[idx]
}
