// Package agent orchestrates vision-driven test execution: it captures the
// screen, asks the vision API where elements are, performs device actions and
// auto-navigates toward elements that are not yet visible.
package agent

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/core"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/logger"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/stats"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/step"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/testcase"
)

// Config controls agent behavior.
type Config struct {
	// Intelligent enables auto-navigation when an element is not visible.
	Intelligent bool

	// MaxLocateAttempts bounds location retries in intelligent mode.
	MaxLocateAttempts int

	// StepPause is the delay between consecutive steps.
	StepPause time.Duration

	// SettleDelay is the wait after a navigation action before recapturing.
	SettleDelay time.Duration
}

// DefaultConfig returns the standard agent configuration.
func DefaultConfig() Config {
	return Config{
		Intelligent:       true,
		MaxLocateAttempts: 3,
		StepPause:         500 * time.Millisecond,
		SettleDelay:       1 * time.Second,
	}
}

// Agent executes test cases against a device using vision for element
// location. Composition over inheritance: the device acts, the vision client
// sees, the tracker counts.
type Agent struct {
	device core.Device
	vision core.Vision
	stats  *stats.Tracker
	cfg    Config
}

// Result is the outcome of a test-case run, shaped for the HTTP API.
type Result struct {
	Status         string            `json:"status"`
	App            string            `json:"app_name"`
	CompletedSteps int               `json:"completed_steps"`
	TotalSteps     int               `json:"total_steps"`
	FailedStep     string            `json:"failed_step,omitempty"`
	Steps          []core.StepResult `json:"steps,omitempty"`
	Statistics     stats.Summary     `json:"statistics"`
}

// New creates an agent over the given device and vision client.
func New(device core.Device, vision core.Vision, tracker *stats.Tracker, cfg Config) *Agent {
	if cfg.MaxLocateAttempts <= 0 {
		cfg.MaxLocateAttempts = 3
	}
	return &Agent{
		device: device,
		vision: vision,
		stats:  tracker,
		cfg:    cfg,
	}
}

// Statistics returns the current run statistics.
func (a *Agent) Statistics() stats.Summary {
	return a.stats.Summary()
}

// RunTestCase executes all steps of a test case in order, stopping at the
// first failure. Statistics are reset at the start of each run.
func (a *Agent) RunTestCase(ctx context.Context, tc *testcase.TestCase) *Result {
	logger.Info("starting test %q with %d steps", tc.App, len(tc.Steps))

	a.stats.Reset()
	a.stats.StartRun()

	result := &Result{
		App:        tc.App,
		TotalSteps: len(tc.Steps),
		Steps:      make([]core.StepResult, 0, len(tc.Steps)),
	}

	for i, raw := range tc.Steps {
		st := step.Parse(raw)
		logger.Info("step %d/%d: %s", i+1, len(tc.Steps), st.Describe())

		sr := a.executeStep(ctx, i+1, st)
		result.Steps = append(result.Steps, sr)

		if sr.Status != core.StatusPassed {
			result.FailedStep = raw
			logger.Warn("step %d failed: %s", i+1, sr.Error)
			a.markSkipped(result, tc.Steps, i+1)
			break
		}

		result.CompletedSteps++
		logger.Info("step %d passed", i+1)

		if i < len(tc.Steps)-1 {
			time.Sleep(a.cfg.StepPause)
		}
	}

	a.stats.EndRun()
	result.Statistics = a.stats.Summary()

	if result.CompletedSteps == result.TotalSteps {
		result.Status = core.RunSuccess
	} else {
		result.Status = core.RunFailed
	}

	logger.Info("test %q finished: %s (%d/%d steps)",
		tc.App, result.Status, result.CompletedSteps, result.TotalSteps)
	return result
}

// markSkipped appends skipped results for steps after the failed one.
func (a *Agent) markSkipped(result *Result, steps []string, from int) {
	for i := from; i < len(steps); i++ {
		result.Steps = append(result.Steps, core.StepResult{
			Index:  i + 1,
			Text:   steps[i],
			Kind:   step.Parse(steps[i]).Kind,
			Status: core.StatusSkipped,
		})
	}
}

// executeStep runs a single step: capture, locate, act, record.
func (a *Agent) executeStep(ctx context.Context, index int, st step.Step) core.StepResult {
	sr := core.StepResult{
		Index:     index,
		Text:      st.Raw,
		Kind:      st.Kind,
		Status:    core.StatusRunning,
		StartTime: time.Now(),
	}

	err := a.runStep(ctx, st, &sr)
	sr.Duration = time.Since(sr.StartTime)

	if err != nil {
		sr.Status = core.StatusFailed
		sr.Error = err.Error()
		sr.Category = categoryOf(err)
		a.stats.RecordAction(false)
		return sr
	}

	sr.Status = core.StatusPassed
	a.stats.RecordAction(true)
	return sr
}

func (a *Agent) runStep(ctx context.Context, st step.Step, sr *core.StepResult) error {
	screen, err := a.device.CaptureScreen()
	if err != nil {
		return err
	}

	var pt *core.PixelPoint
	if !st.NonVisual() {
		coords, locErr := a.locate(ctx, screen, st, sr)
		if locErr != nil {
			if !st.LocationOptional() {
				return locErr
			}
			// Type steps fall back to the focused field
			logger.Debug("location failed for type step, using focused field")
		}
		if coords != nil {
			p := a.device.ToPixels(*coords)
			pt = &p
			sr.Point = pt
		}
	}

	return a.device.Perform(st, pt)
}

// locate picks the location strategy based on configuration.
func (a *Agent) locate(ctx context.Context, screen []byte, st step.Step, sr *core.StepResult) (*core.Point, error) {
	if a.cfg.Intelligent {
		return a.intelligentLocate(ctx, screen, st, sr)
	}
	sr.Attempts = 1
	return a.vision.Locate(ctx, screen, st.Raw)
}

// intelligentLocate tries to find the element, and when it is not on screen
// asks the vision API for a navigation action, performs it, and retries.
func (a *Agent) intelligentLocate(ctx context.Context, screen []byte, st step.Step, sr *core.StepResult) (*core.Point, error) {
	var lastErr error

	for attempt := 1; attempt <= a.cfg.MaxLocateAttempts; attempt++ {
		sr.Attempts = attempt

		pt, err := a.vision.Locate(ctx, screen, st.Raw)
		if err == nil {
			return pt, nil
		}
		lastErr = err

		if !errors.Is(err, core.ErrElementNotFound) {
			return nil, err
		}
		if attempt == a.cfg.MaxLocateAttempts {
			break
		}

		logger.Info("element not found (attempt %d/%d), asking for navigation",
			attempt, a.cfg.MaxLocateAttempts)

		suggestion, err := a.vision.NavigationSuggestion(ctx, screen, st.Raw)
		if err != nil {
			return nil, lastErr
		}
		if suggestionImpossible(suggestion) {
			logger.Info("navigation reported as not possible")
			return nil, core.ErrNavigationNotPossible
		}

		logger.Info("navigation suggestion: %q", suggestion)
		if err := a.navigate(ctx, screen, suggestion); err != nil {
			logger.Warn("navigation failed: %v", err)
		} else {
			a.stats.RecordNavigation()
			sr.Navigations++
			time.Sleep(a.cfg.SettleDelay)
		}

		screen, err = a.device.CaptureScreen()
		if err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// navigate executes a suggested navigation action. Suggestions that name an
// element to click are located first; whole-screen actions run directly.
func (a *Agent) navigate(ctx context.Context, screen []byte, suggestion string) error {
	nav := step.Parse(suggestion)

	var pt *core.PixelPoint
	if nav.Kind == step.KindTap {
		coords, err := a.vision.Locate(ctx, screen, suggestion)
		if err != nil {
			return err
		}
		p := a.device.ToPixels(*coords)
		pt = &p
	}

	return a.device.Perform(nav, pt)
}

func suggestionImpossible(s string) bool {
	return s == "" || strings.Contains(s, "not possible")
}

// categoryOf extracts the error category for reporting.
func categoryOf(err error) core.ErrorCategory {
	var execErr *core.ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Category
	}
	return core.ErrCategoryNone
}
