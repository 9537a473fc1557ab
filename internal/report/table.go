package report

import (
	"fmt"
	"io"
)

// WriteTable renders the suite as a fixed-width console table followed by
// the aggregate line.
func WriteTable(w io.Writer, s *Suite) {
	fmt.Fprintf(w, "%-6s  %-8s  %-18s  %-22s  %-6s  %-8s  %-8s  %-10s\n",
		"TASK", "THREAD", "STATE", "CAUSE", "TRIPS", "SRC", "SINK", "DURATION")
	for _, t := range s.Tasks {
		fmt.Fprintf(w, "%-6d  %-8d  %-18s  %-22s  %-6d  %-8s  %-8s  %8.2fms\n",
			t.TaskID, t.ThreadID, t.State, t.Cause, t.RoundTrips, t.SourceArch, t.SinkArch, t.DurationMs)
	}

	sum := SummarizeDurations(s.Tasks)
	fmt.Fprintf(w, "run %s source=%d sink=%d tasks=%d passed=%d failed=%d cancelled=%d\n",
		s.RunID, s.Source, s.Sink, s.Requested, s.Passed, s.Failed, s.Cancelled)
	if sum.Count > 0 {
		fmt.Fprintf(w, "duration avg=%.2fms p95=%.2fms min=%.2fms max=%.2fms\n",
			sum.AvgMs, sum.P95Ms, sum.MinMs, sum.MaxMs)
	}
}

// WriteExitLines prints one join-time line per task.
func WriteExitLines(w io.Writer, s *Suite) {
	for _, t := range s.Tasks {
		switch {
		case t.Passed:
			fmt.Fprintf(w, "task %d thread %d PASSED after %d round-trip(s)\n", t.TaskID, t.ThreadID, t.RoundTrips)
		case t.Cancelled:
			fmt.Fprintf(w, "task %d thread %d cancelled in state %s after %d round-trip(s)\n", t.TaskID, t.ThreadID, t.State, t.RoundTrips)
		default:
			fmt.Fprintf(w, "task %d thread %d FAILED [%s] %s\n", t.TaskID, t.ThreadID, t.Cause, t.Detail)
		}
	}
}
