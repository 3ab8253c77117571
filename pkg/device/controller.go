package device

import (
	"fmt"
	"time"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/core"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/logger"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/step"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/uiautomator2"
)

// GestureClient is the subset of the UIAutomator2 client the controller needs.
type GestureClient interface {
	Status() (bool, error)
	CreateSession(caps uiautomator2.Capabilities) error
	Close() error
	Click(x, y int) error
	Swipe(area uiautomator2.RectModel, direction string, percent float64, speed int) error
	PressKeyCode(keycode int) error
	TypeText(text string) error
	Screenshot() ([]byte, error)
	Source() (string, error)
	GetWindowSize() (uiautomator2.WindowSize, error)
}

// swipeSpeed is the gesture speed in pixels per second.
const swipeSpeed = 5000

// Controller implements core.Device on top of a UIAutomator2 session.
type Controller struct {
	client GestureClient
	width  int
	height int
}

// NewController creates a controller over an existing client.
// Call Connect before performing actions.
func NewController(client GestureClient) *Controller {
	return &Controller{client: client}
}

// Connect waits for the automation server, opens a session and reads the
// screen dimensions.
func (c *Controller) Connect(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		ready, err := c.client.Status()
		if err == nil && ready {
			break
		}
		if time.Now().After(deadline) {
			return core.ErrDeviceUnreachable.WithCause(err)
		}
		time.Sleep(500 * time.Millisecond)
	}

	if err := c.client.CreateSession(uiautomator2.Capabilities{}); err != nil {
		return core.ErrDeviceUnreachable.WithCause(err)
	}

	size, err := c.client.GetWindowSize()
	if err != nil {
		return core.ErrDeviceUnreachable.WithCause(err)
	}
	c.width = size.Width
	c.height = size.Height

	logger.Info("device connected, screen %dx%d", c.width, c.height)
	return nil
}

// Close ends the automation session.
func (c *Controller) Close() error {
	return c.client.Close()
}

// CaptureScreen captures the current screen as PNG.
func (c *Controller) CaptureScreen() ([]byte, error) {
	data, err := c.client.Screenshot()
	if err != nil {
		return nil, core.ErrScreenshotFailed.WithCause(err)
	}
	return data, nil
}

// Hierarchy captures the UI hierarchy as XML.
func (c *Controller) Hierarchy() ([]byte, error) {
	source, err := c.client.Source()
	if err != nil {
		return nil, core.ErrActionFailed.WithCause(err)
	}
	return []byte(source), nil
}

// ScreenSize returns the screen dimensions in pixels.
func (c *Controller) ScreenSize() (int, int) {
	return c.width, c.height
}

// ToPixels converts a normalized point to screen pixels.
func (c *Controller) ToPixels(p core.Point) core.PixelPoint {
	return p.ToPixels(c.width, c.height)
}

// Tap taps the screen at pixel coordinates.
func (c *Controller) Tap(pt core.PixelPoint) error {
	if !pt.In(c.width, c.height) {
		return core.ErrInvalidCoordinates.WithMessage(
			fmt.Sprintf("tap point (%d, %d) outside %dx%d screen",
				pt.X, pt.Y, c.width, c.height))
	}
	logger.Debug("tap at (%d, %d)", pt.X, pt.Y)
	if err := c.client.Click(pt.X, pt.Y); err != nil {
		return core.ErrActionFailed.WithCause(err)
	}
	return nil
}

// TypeText types into the currently focused input field.
func (c *Controller) TypeText(text string) error {
	logger.Debug("type %q", text)
	if err := c.client.TypeText(text); err != nil {
		return core.ErrActionFailed.WithCause(err)
	}
	return nil
}

// Scroll scrolls the screen content in the given direction.
// Scrolling down means revealing content below, which requires the finger
// to move up, so the gesture direction is the inverse for vertical scrolls.
func (c *Controller) Scroll(dir step.Direction) error {
	gesture := map[step.Direction]string{
		step.DirectionDown:  uiautomator2.DirectionUp,
		step.DirectionUp:    uiautomator2.DirectionDown,
		step.DirectionLeft:  uiautomator2.DirectionLeft,
		step.DirectionRight: uiautomator2.DirectionRight,
	}[dir]
	if gesture == "" {
		gesture = uiautomator2.DirectionUp
	}

	// Swipe over the middle band of the screen to avoid system gestures
	area := uiautomator2.NewRect(
		c.width/10, c.height/4,
		c.width*8/10, c.height/2,
	)
	logger.Debug("scroll %s (gesture %s)", dir, gesture)
	if err := c.client.Swipe(area, gesture, 0.8, swipeSpeed); err != nil {
		return core.ErrActionFailed.WithCause(err)
	}
	return nil
}

// Swipe is an alias for Scroll; "swipe down" and "scroll down" move the
// content the same way.
func (c *Controller) Swipe(dir step.Direction) error {
	return c.Scroll(dir)
}

// PressKey presses a hardware/navigation key.
func (c *Controller) PressKey(key step.Key) error {
	keycode := map[step.Key]int{
		step.KeyBack:  uiautomator2.KeyCodeBack,
		step.KeyHome:  uiautomator2.KeyCodeHome,
		step.KeyEnter: uiautomator2.KeyCodeEnter,
	}[key]
	if keycode == 0 {
		return core.ErrActionFailed.WithMessage(fmt.Sprintf("unknown key %q", key))
	}
	logger.Debug("press key %s", key)
	if err := c.client.PressKeyCode(keycode); err != nil {
		return core.ErrActionFailed.WithCause(err)
	}
	return nil
}

// Perform executes a parsed step, tapping at pt when the step needs one.
func (c *Controller) Perform(st step.Step, pt *core.PixelPoint) error {
	switch st.Kind {
	case step.KindTap:
		if pt == nil {
			return core.ErrNoCoordinates
		}
		return c.Tap(*pt)

	case step.KindType:
		// Tap the field first when coordinates are known
		if pt != nil {
			if err := c.Tap(*pt); err != nil {
				return err
			}
			time.Sleep(500 * time.Millisecond)
		}
		return c.TypeText(st.Text)

	case step.KindScroll:
		return c.Scroll(st.Direction)

	case step.KindSwipe:
		return c.Swipe(st.Direction)

	case step.KindPress:
		return c.PressKey(st.Key)

	case step.KindWait:
		logger.Debug("wait %.1fs", st.WaitSeconds)
		time.Sleep(st.WaitDuration())
		return nil

	default:
		return core.ErrActionFailed.WithMessage(fmt.Sprintf("unknown action %q", st.Kind))
	}
}
