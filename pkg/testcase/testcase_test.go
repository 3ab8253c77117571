package testcase

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/core"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/jsengine"
)

func TestParse(t *testing.T) {
	data := []byte(`
name: Login flow
app: MyApp
steps:
  - click login button
  - type admin
  - press enter
`)

	tc, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tc.Name != "Login flow" {
		t.Errorf("Name = %q", tc.Name)
	}
	if tc.App != "MyApp" {
		t.Errorf("App = %q", tc.App)
	}
	if len(tc.Steps) != 3 {
		t.Errorf("len(Steps) = %d, want 3", len(tc.Steps))
	}
}

func TestParseAppNameAlias(t *testing.T) {
	data := []byte(`
app_name: Snapchat
steps:
  - click camera button
`)

	tc, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tc.App != "Snapchat" {
		t.Errorf("App = %q, want Snapchat", tc.App)
	}
	if tc.Name != "Snapchat" {
		t.Errorf("Name = %q, want Snapchat", tc.Name)
	}
}

func TestParseDefaults(t *testing.T) {
	tc, err := Parse([]byte("steps:\n  - click something\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tc.App != "Test" {
		t.Errorf("App = %q, want Test", tc.App)
	}
}

func TestParseNoSteps(t *testing.T) {
	_, err := Parse([]byte("app: Empty\n"))
	if !errors.Is(err, core.ErrInvalidTestCase) {
		t.Errorf("err = %v, want ErrInvalidTestCase", err)
	}
}

func TestParseEmptyStep(t *testing.T) {
	_, err := Parse([]byte("steps:\n  - click a\n  - \"\"\n"))
	if !errors.Is(err, core.ErrInvalidTestCase) {
		t.Errorf("err = %v, want ErrInvalidTestCase", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "case.yaml")
	content := []byte("app: FileApp\nsteps:\n  - click ok\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	tc, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tc.App != "FileApp" {
		t.Errorf("App = %q", tc.App)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/case.yaml"); err == nil {
		t.Error("expected an error for missing file")
	}
}

func TestInterpolate(t *testing.T) {
	data := []byte(`
app: MyApp
env:
  USER: alice
steps:
  - type $USER
  - click ${'log' + 'in'} button
`)

	tc, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}

	out, err := tc.Interpolate(jsengine.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Steps[0] != "type alice" {
		t.Errorf("Steps[0] = %q", out.Steps[0])
	}
	if out.Steps[1] != "click login button" {
		t.Errorf("Steps[1] = %q", out.Steps[1])
	}

	// original untouched
	if tc.Steps[0] != "type $USER" {
		t.Errorf("original mutated: %q", tc.Steps[0])
	}
}

func TestInterpolateBadExpression(t *testing.T) {
	tc := &TestCase{
		App:   "X",
		Steps: []string{"click ${bad syntax!}"},
	}
	if _, err := tc.Interpolate(jsengine.New()); err == nil {
		t.Error("expected an error for invalid JS")
	}
}
