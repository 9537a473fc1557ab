package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// WriteCSV writes task results to CSV with a fixed column order.
func WriteCSV(w io.Writer, items []TaskResult) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{
		"task_id",
		"thread_id",
		"state",
		"cause",
		"passed",
		"cancelled",
		"round_trips",
		"source_arch",
		"sink_arch",
		"duration_ms",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, t := range items {
		record := []string{
			strconv.Itoa(t.TaskID),
			strconv.FormatInt(t.ThreadID, 10),
			t.State,
			t.Cause,
			strconv.FormatBool(t.Passed),
			strconv.FormatBool(t.Cancelled),
			strconv.Itoa(t.RoundTrips),
			t.SourceArch,
			t.SinkArch,
			strconv.FormatFloat(t.DurationMs, 'f', 3, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

// SaveCSV writes task results to a CSV file, creating parent directories.
func SaveCSV(path string, items []TaskResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteCSV(file, items)
}

// ReadCSV loads task results from a CSV file.
func ReadCSV(path string) ([]TaskResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return readCSV(file)
}

func readCSV(r io.Reader) ([]TaskResult, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	start := 0
	if len(records[0]) > 0 && records[0][0] == "task_id" {
		start = 1
	}

	items := make([]TaskResult, 0, len(records)-start)
	for i := start; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 10 {
			return nil, fmt.Errorf("invalid record at line %d", i+1)
		}
		taskID, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("invalid task_id at line %d: %w", i+1, err)
		}
		threadID, _ := strconv.ParseInt(rec[1], 10, 64)
		passed, _ := strconv.ParseBool(rec[4])
		cancelled, _ := strconv.ParseBool(rec[5])
		roundTrips, _ := strconv.Atoi(rec[6])
		durationMs, _ := strconv.ParseFloat(rec[9], 64)
		items = append(items, TaskResult{
			TaskID:     taskID,
			ThreadID:   threadID,
			State:      rec[2],
			Cause:      rec[3],
			Passed:     passed,
			Cancelled:  cancelled,
			RoundTrips: roundTrips,
			SourceArch: rec[7],
			SinkArch:   rec[8],
			DurationMs: durationMs,
		})
	}

	return items, nil
}
