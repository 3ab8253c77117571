package core

import (
	"time"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/step"
)

// StepResult captures the complete outcome of executing a single test step.
type StepResult struct {
	Index  int        `json:"index"`
	Text   string     `json:"text"`
	Kind   step.Kind  `json:"kind"`
	Status StepStatus `json:"status"`

	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`

	// Point the step acted on, if it located an element
	Point *PixelPoint `json:"point,omitempty"`

	// Attempts is the number of location attempts made (intelligent mode)
	Attempts int `json:"attempts,omitempty"`

	// Navigations is the number of auto-navigation actions taken
	Navigations int `json:"navigations,omitempty"`

	Error    string        `json:"error,omitempty"`
	Category ErrorCategory `json:"-"`
}
