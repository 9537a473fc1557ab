package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestSuite_AllPassed(t *testing.T) {
	t.Parallel()

	s := &Suite{Requested: 2, Passed: 2}
	if !s.AllPassed() {
		t.Fatalf("expected all passed")
	}

	s = &Suite{Requested: 2, Passed: 1, Failed: 1}
	if s.AllPassed() {
		t.Fatalf("failed task must fail the suite")
	}
	if s.NoFailures() {
		t.Fatalf("NoFailures with failed=1")
	}

	// Cancelled soak tasks do not count as failures.
	s = &Suite{Requested: 2, Cancelled: 2}
	if s.AllPassed() {
		t.Fatalf("cancelled tasks are not passes")
	}
	if !s.NoFailures() {
		t.Fatalf("cancelled tasks are not failures")
	}
}

func TestSuite_FirstFailure(t *testing.T) {
	t.Parallel()

	s := &Suite{Tasks: []TaskResult{
		{TaskID: 0, State: "PASSED", Passed: true},
		{TaskID: 1, State: "FAILED", Cause: "migration-failed"},
		{TaskID: 2, State: "FAILED", Cause: "wrong-node"},
	}}
	f, ok := s.FirstFailure()
	if !ok || f.TaskID != 1 {
		t.Fatalf("first=%+v ok=%v", f, ok)
	}

	if _, ok := (&Suite{}).FirstFailure(); ok {
		t.Fatalf("empty suite has no failure")
	}
}

func TestSummarizeDurations(t *testing.T) {
	t.Parallel()

	tasks := []TaskResult{
		{DurationMs: 10},
		{DurationMs: 20},
	}
	sum := SummarizeDurations(tasks)
	if sum.Count != 2 {
		t.Fatalf("count=%d", sum.Count)
	}
	if sum.AvgMs != 15 {
		t.Fatalf("avg=%.2f", sum.AvgMs)
	}
	if sum.MinMs != 10 || sum.MaxMs != 20 {
		t.Fatalf("min/max=%.2f/%.2f", sum.MinMs, sum.MaxMs)
	}
	if sum.P95Ms != 20 {
		t.Fatalf("p95=%.2f", sum.P95Ms)
	}

	if got := SummarizeDurations(nil); got.Count != 0 {
		t.Fatalf("empty count=%d", got.Count)
	}
}

func TestPercentile_Edges(t *testing.T) {
	t.Parallel()

	values := []float64{1, 2, 3, 4}
	if got := percentile(values, 0); got != 1 {
		t.Fatalf("p0=%v", got)
	}
	if got := percentile(values, 1); got != 4 {
		t.Fatalf("p100=%v", got)
	}
}

func TestWriteTable(t *testing.T) {
	t.Parallel()

	s := &Suite{
		RunID:     "run-1",
		Requested: 1,
		Passed:    1,
		Tasks: []TaskResult{
			{TaskID: 0, ThreadID: 4000, State: "PASSED", Passed: true, RoundTrips: 1, SourceArch: "x86-64", SinkArch: "arm64", DurationMs: 1.5},
		},
	}

	var buf bytes.Buffer
	WriteTable(&buf, s)
	out := buf.String()
	if !strings.Contains(out, "PASSED") || !strings.Contains(out, "x86-64") {
		t.Fatalf("table output:\n%s", out)
	}
	if !strings.Contains(out, "passed=1 failed=0") {
		t.Fatalf("missing aggregate line:\n%s", out)
	}
}

func TestWriteExitLines(t *testing.T) {
	t.Parallel()

	s := &Suite{Tasks: []TaskResult{
		{TaskID: 0, ThreadID: 4000, State: "PASSED", Passed: true, RoundTrips: 1},
		{TaskID: 1, ThreadID: 4001, State: "FAILED", Cause: "node-offline", Detail: "node-1 is offline"},
		{TaskID: 2, ThreadID: 4002, State: "MIGRATING_OUT", Cancelled: true, RoundTrips: 7},
	}}

	var buf bytes.Buffer
	WriteExitLines(&buf, s)
	out := buf.String()
	for _, want := range []string{"PASSED", "FAILED [node-offline]", "cancelled in state MIGRATING_OUT"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
