package core

import (
	"context"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/step"
)

// Device executes physical actions on a connected device.
// Implemented by device.Controller. The agent handles retry and navigation
// logic; Device just performs individual actions.
type Device interface {
	// CaptureScreen captures the current screen as PNG
	CaptureScreen() ([]byte, error)

	// Hierarchy captures the UI hierarchy as XML
	Hierarchy() ([]byte, error)

	// Perform executes a parsed step, tapping at pt when the step needs one
	Perform(st step.Step, pt *PixelPoint) error

	// ToPixels converts a normalized point to screen pixels
	ToPixels(p Point) PixelPoint

	// ScreenSize returns the screen dimensions in pixels
	ScreenSize() (width, height int)
}

// Vision answers questions about screenshots and locates elements on them.
// Implemented by vision.Client.
type Vision interface {
	// Query asks a free-form question about the screenshot
	Query(ctx context.Context, image []byte, question string) (string, error)

	// Locate finds an element and returns its normalized coordinates
	Locate(ctx context.Context, image []byte, object string) (*Point, error)

	// CheckVisibility reports whether the named element is visible
	CheckVisibility(ctx context.Context, image []byte, element string) (bool, error)

	// NavigationSuggestion asks for a single action to reveal the goal element
	NavigationSuggestion(ctx context.Context, image []byte, goal string) (string, error)

	// Validate checks an expectation against the screenshot
	Validate(ctx context.Context, image []byte, expectation string) (bool, error)
}
