package agent

import (
	"context"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/core"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/step"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/testcase"
)

// Plan parses a test case without touching the device and returns the
// actions each step would resolve to. Used for dry runs.
func Plan(tc *testcase.TestCase) *Result {
	result := &Result{
		Status:     core.RunPlanned,
		App:        tc.App,
		TotalSteps: len(tc.Steps),
		Steps:      make([]core.StepResult, 0, len(tc.Steps)),
	}

	for i, raw := range tc.Steps {
		st := step.Parse(raw)
		result.Steps = append(result.Steps, core.StepResult{
			Index:  i + 1,
			Text:   raw,
			Kind:   st.Kind,
			Status: core.StatusPending,
		})
	}

	return result
}

// CaptureScreen captures the current device screen as PNG.
func (a *Agent) CaptureScreen() ([]byte, error) {
	return a.device.CaptureScreen()
}

// ScreenSize returns the device screen dimensions in pixels.
func (a *Agent) ScreenSize() (int, int) {
	return a.device.ScreenSize()
}

// Hierarchy returns the current UI hierarchy XML.
func (a *Agent) Hierarchy() ([]byte, error) {
	return a.device.Hierarchy()
}

// QueryScreen captures the screen and asks the vision API a question about it.
func (a *Agent) QueryScreen(ctx context.Context, question string) (string, error) {
	screen, err := a.device.CaptureScreen()
	if err != nil {
		return "", err
	}
	return a.vision.Query(ctx, screen, question)
}

// ValidateScreen captures the screen and checks an expectation against it.
func (a *Agent) ValidateScreen(ctx context.Context, expectation string) (bool, error) {
	screen, err := a.device.CaptureScreen()
	if err != nil {
		return false, err
	}
	return a.vision.Validate(ctx, screen, expectation)
}
