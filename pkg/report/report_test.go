package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/agent"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/core"
)

func testResult(status string) *agent.Result {
	return &agent.Result{
		Status:         status,
		App:            "Demo",
		CompletedSteps: 2,
		TotalSteps:     2,
	}
}

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	runID, err := w.Write(testResult(core.RunSuccess), start, 3*time.Second)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run ID")
	}

	rep, err := ReadReport(dir, runID)
	if err != nil {
		t.Fatalf("ReadReport: %v", err)
	}
	if rep.App != "Demo" || rep.Status != core.RunSuccess {
		t.Errorf("report = %+v", rep)
	}
	if rep.DurationMs != 3000 {
		t.Errorf("duration = %d, want 3000", rep.DurationMs)
	}
	if rep.Version != FormatVersion {
		t.Errorf("version = %q", rep.Version)
	}
}

func TestIndexNewestFirst(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatal(err)
	}

	old := time.Now().Add(-time.Hour)
	if _, err := w.Write(testResult(core.RunFailed), old, time.Second); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(testResult(core.RunSuccess), time.Now(), time.Second); err != nil {
		t.Fatal(err)
	}

	idx, err := ReadIndex(dir)
	if err != nil {
		t.Fatalf("ReadIndex: %v", err)
	}
	if len(idx.Runs) != 2 {
		t.Fatalf("len(Runs) = %d", len(idx.Runs))
	}
	if idx.Runs[0].Status != core.RunSuccess {
		t.Errorf("first entry = %+v, want the newest run", idx.Runs[0])
	}
}

func TestReadIndexMissing(t *testing.T) {
	idx, err := ReadIndex(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(idx.Runs) != 0 {
		t.Errorf("Runs = %v", idx.Runs)
	}
}

func TestReadReportMissing(t *testing.T) {
	if _, err := ReadReport(t.TempDir(), "nope"); err == nil {
		t.Error("expected an error for missing report")
	}
}

func TestNoPartialFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(testResult(core.RunSuccess), time.Now(), time.Second); err != nil {
		t.Fatal(err)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}

	if _, err := os.Stat(filepath.Join(dir, "index.json")); err != nil {
		t.Errorf("index.json missing: %v", err)
	}
}
