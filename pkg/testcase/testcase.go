// Package testcase handles parsing of YAML test-case files: a named app plus
// an ordered list of natural-language steps.
package testcase

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/core"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/jsengine"
)

// TestCase represents a parsed test-case file.
type TestCase struct {
	Name  string            `yaml:"name" json:"name"`
	App   string            `yaml:"app" json:"app_name"`
	Env   map[string]string `yaml:"env" json:"-"`
	Steps []string          `yaml:"steps" json:"steps"`

	// AppName is accepted as an alias for app, matching the HTTP API shape.
	AppName string `yaml:"app_name" json:"-"`
}

// Parse parses test-case YAML data.
func Parse(data []byte) (*TestCase, error) {
	var tc TestCase
	if err := yaml.Unmarshal(data, &tc); err != nil {
		return nil, fmt.Errorf("parse test case: %w", err)
	}

	if tc.App == "" {
		tc.App = tc.AppName
	}
	if tc.App == "" {
		tc.App = "Test"
	}
	if tc.Name == "" {
		tc.Name = tc.App
	}

	if err := tc.Validate(); err != nil {
		return nil, err
	}

	return &tc, nil
}

// Load parses a test-case file from disk.
func Load(path string) (*TestCase, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided test case file
	if err != nil {
		return nil, err
	}

	tc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tc, nil
}

// Validate checks the test case has at least one non-empty step.
func (tc *TestCase) Validate() error {
	if len(tc.Steps) == 0 {
		return core.ErrInvalidTestCase
	}
	for i, s := range tc.Steps {
		if s == "" {
			return core.ErrInvalidTestCase.WithMessage(
				fmt.Sprintf("step %d is empty", i+1))
		}
	}
	return nil
}

// Interpolate expands ${expr} and $VAR syntax in all steps using the given
// engine. The test case's own env block is applied to the engine first.
// Returns a copy; the original is left untouched.
func (tc *TestCase) Interpolate(eng *jsengine.Engine) (*TestCase, error) {
	eng.SetVariables(tc.Env)

	out := *tc
	out.Steps = make([]string, len(tc.Steps))
	for i, s := range tc.Steps {
		expanded, err := eng.ExpandVariables(s)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		out.Steps[i] = expanded
	}

	name, err := eng.ExpandVariables(tc.Name)
	if err == nil {
		out.Name = name
	}

	return &out, nil
}
