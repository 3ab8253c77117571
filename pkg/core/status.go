package core

// StepStatus represents the execution status of a step.
type StepStatus int

const (
	StatusPending StepStatus = iota // Not yet started
	StatusRunning                   // Currently executing
	StatusPassed                    // Completed successfully
	StatusFailed                    // Action or location failed
	StatusSkipped                   // Not reached because an earlier step failed
)

// String returns the string representation of StepStatus.
func (s StepStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// IsTerminal returns true if the status is a final state.
func (s StepStatus) IsTerminal() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}

// MarshalJSON serializes the status as its string form.
func (s StepStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Run status values reported by the HTTP API.
const (
	RunSuccess = "success"
	RunFailed  = "failed"
	RunPlanned = "planned"
)

// ErrorCategory classifies errors for debugging and reporting.
type ErrorCategory int

const (
	ErrCategoryNone     ErrorCategory = iota // No error
	ErrCategoryLocation                      // Element could not be located on screen
	ErrCategoryVision                        // Vision API call failed
	ErrCategoryDevice                        // Device action or connection failed
	ErrCategoryTimeout                       // Operation timed out
	ErrCategoryConfig                        // Invalid configuration or test case
)

// String returns the string representation of ErrorCategory.
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryLocation:
		return "location"
	case ErrCategoryVision:
		return "vision"
	case ErrCategoryDevice:
		return "device"
	case ErrCategoryTimeout:
		return "timeout"
	case ErrCategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}
