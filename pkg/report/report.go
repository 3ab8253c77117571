// Package report persists test run results as JSON files: one file per run
// plus an index of all runs in the output directory.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/agent"
)

// FormatVersion identifies the report schema.
const FormatVersion = "1.0.0"

// Report is the persisted record of a single test run.
type Report struct {
	Version    string        `json:"version"`
	RunID      string        `json:"run_id"`
	App        string        `json:"app_name"`
	Status     string        `json:"status"`
	StartTime  time.Time     `json:"start_time"`
	DurationMs int64         `json:"duration_ms"`
	Result     *agent.Result `json:"result"`
}

// IndexEntry is the per-run summary stored in the index.
type IndexEntry struct {
	RunID          string    `json:"run_id"`
	App            string    `json:"app_name"`
	Status         string    `json:"status"`
	StartTime      time.Time `json:"start_time"`
	DurationMs     int64     `json:"duration_ms"`
	CompletedSteps int       `json:"completed_steps"`
	TotalSteps     int       `json:"total_steps"`
	DataFile       string    `json:"data_file"`
}

// Index lists all runs in a report directory, newest first.
type Index struct {
	Version     string       `json:"version"`
	LastUpdated time.Time    `json:"last_updated"`
	Runs        []IndexEntry `json:"runs"`
}

// Writer persists run reports to a directory.
// Safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	dir string
}

// NewWriter creates a report writer for the given directory.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Join(dir, "runs"), 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the report directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write persists a run result and updates the index.
// Returns the generated run ID.
func (w *Writer) Write(result *agent.Result, startTime time.Time, duration time.Duration) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	runID := uuid.NewString()
	dataFile := filepath.Join("runs", "run-"+runID+".json")

	rep := &Report{
		Version:    FormatVersion,
		RunID:      runID,
		App:        result.App,
		Status:     result.Status,
		StartTime:  startTime,
		DurationMs: duration.Milliseconds(),
		Result:     result,
	}

	if err := atomicWriteJSON(filepath.Join(w.dir, dataFile), rep); err != nil {
		return "", err
	}

	if err := w.updateIndex(IndexEntry{
		RunID:          runID,
		App:            result.App,
		Status:         result.Status,
		StartTime:      startTime,
		DurationMs:     duration.Milliseconds(),
		CompletedSteps: result.CompletedSteps,
		TotalSteps:     result.TotalSteps,
		DataFile:       dataFile,
	}); err != nil {
		return "", err
	}

	return runID, nil
}

// ReadIndex loads the run index from a report directory.
func ReadIndex(dir string) (*Index, error) {
	data, err := os.ReadFile(filepath.Join(dir, "index.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return &Index{Version: FormatVersion}, nil
		}
		return nil, err
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return &idx, nil
}

// ReadReport loads a single run report by ID.
func ReadReport(dir, runID string) (*Report, error) {
	data, err := os.ReadFile(filepath.Join(dir, "runs", "run-"+runID+".json"))
	if err != nil {
		return nil, err
	}

	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", runID, err)
	}
	return &rep, nil
}

// updateIndex adds an entry and rewrites the index, newest runs first.
func (w *Writer) updateIndex(entry IndexEntry) error {
	idx, err := ReadIndex(w.dir)
	if err != nil {
		return err
	}

	idx.Version = FormatVersion
	idx.LastUpdated = time.Now()
	idx.Runs = append(idx.Runs, entry)
	sort.Slice(idx.Runs, func(i, j int) bool {
		return idx.Runs[i].StartTime.After(idx.Runs[j].StartTime)
	})

	return atomicWriteJSON(filepath.Join(w.dir, "index.json"), idx)
}

// atomicWriteJSON writes JSON via a temp file and rename so readers never
// observe a partial file.
func atomicWriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
