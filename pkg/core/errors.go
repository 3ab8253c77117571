package core

import "fmt"

// ExecutionError represents a structured error with category and details.
type ExecutionError struct {
	Category ErrorCategory
	Code     string // Machine-readable code: element_not_found, vision_unavailable, etc.
	Message  string // Human-readable message
	Cause    error  // Underlying error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Is matches predefined errors by code so errors.Is works on wrapped copies.
func (e *ExecutionError) Is(target error) bool {
	t, ok := target.(*ExecutionError)
	return ok && t.Code == e.Code
}

// WithCause returns a copy of the error with the given cause.
func (e *ExecutionError) WithCause(cause error) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message.
func (e *ExecutionError) WithMessage(msg string) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Cause:    e.Cause,
	}
}

// Predefined errors.
var (
	// Location errors
	ErrElementNotFound = &ExecutionError{
		Category: ErrCategoryLocation,
		Code:     "element_not_found",
		Message:  "element not found on screen",
	}
	ErrNavigationNotPossible = &ExecutionError{
		Category: ErrCategoryLocation,
		Code:     "navigation_not_possible",
		Message:  "no usable navigation suggestion",
	}
	ErrInvalidCoordinates = &ExecutionError{
		Category: ErrCategoryLocation,
		Code:     "invalid_coordinates",
		Message:  "coordinates outside normalized range",
	}

	// Vision errors
	ErrVisionUnavailable = &ExecutionError{
		Category: ErrCategoryVision,
		Code:     "vision_unavailable",
		Message:  "vision API request failed",
	}
	ErrEmptyAnswer = &ExecutionError{
		Category: ErrCategoryVision,
		Code:     "empty_answer",
		Message:  "vision API returned no answer",
	}

	// Device errors
	ErrScreenshotFailed = &ExecutionError{
		Category: ErrCategoryDevice,
		Code:     "screenshot_failed",
		Message:  "failed to capture screen",
	}
	ErrDeviceUnreachable = &ExecutionError{
		Category: ErrCategoryDevice,
		Code:     "device_unreachable",
		Message:  "could not connect to automation server",
	}
	ErrNoCoordinates = &ExecutionError{
		Category: ErrCategoryDevice,
		Code:     "no_coordinates",
		Message:  "tap action requires coordinates",
	}
	ErrActionFailed = &ExecutionError{
		Category: ErrCategoryDevice,
		Code:     "action_failed",
		Message:  "device action failed",
	}

	// Config errors
	ErrInvalidTestCase = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "invalid_test_case",
		Message:  "test case has no steps",
	}
	ErrMissingAPIKey = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "missing_api_key",
		Message:  "vision API key is not configured",
	}
)
