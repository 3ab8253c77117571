package uiautomator2

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Click taps the screen at absolute pixel coordinates.
func (c *Client) Click(x, y int) error {
	if c.sessionID == "" {
		return fmt.Errorf("no active session")
	}

	req := ClickRequest{
		Offset: &PointModel{X: x, Y: y},
	}
	_, err := c.request("POST", c.sessionPath("/appium/gestures/click"), req)
	return err
}

// Swipe performs a swipe gesture over the given screen area.
// Direction is the finger movement direction, percent the fraction of the
// area to traverse (0.0 to 1.0).
func (c *Client) Swipe(area RectModel, direction string, percent float64, speed int) error {
	if c.sessionID == "" {
		return fmt.Errorf("no active session")
	}

	req := SwipeRequest{
		Area:      &area,
		Direction: direction,
		Percent:   percent,
		Speed:     speed,
	}
	_, err := c.request("POST", c.sessionPath("/appium/gestures/swipe"), req)
	return err
}

// PressKeyCode presses an Android key by keycode.
func (c *Client) PressKeyCode(keycode int) error {
	if c.sessionID == "" {
		return fmt.Errorf("no active session")
	}

	req := KeyCodeRequest{KeyCode: keycode}
	_, err := c.request("POST", c.sessionPath("/appium/device/press_keycode"), req)
	return err
}

// TypeText types text into the currently focused element.
func (c *Client) TypeText(text string) error {
	el, err := c.ActiveElement()
	if err != nil {
		return fmt.Errorf("no focused input field: %w", err)
	}
	return el.SendKeys(text)
}

// Screenshot captures the screen as PNG bytes.
func (c *Client) Screenshot() ([]byte, error) {
	if c.sessionID == "" {
		return nil, fmt.Errorf("no active session")
	}

	data, err := c.request("GET", c.sessionPath("/screenshot"), nil)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse screenshot response: %w", err)
	}

	b64, ok := resp.Value.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected screenshot response")
	}

	return decodeBase64(b64)
}

// Source returns the UI hierarchy XML.
func (c *Client) Source() (string, error) {
	if c.sessionID == "" {
		return "", fmt.Errorf("no active session")
	}

	data, err := c.request("GET", c.sessionPath("/source"), nil)
	if err != nil {
		return "", err
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", err
	}

	source, _ := resp.Value.(string)
	return source, nil
}

// GetWindowSize returns the screen dimensions in pixels.
func (c *Client) GetWindowSize() (WindowSize, error) {
	if c.sessionID == "" {
		return WindowSize{}, fmt.Errorf("no active session")
	}

	data, err := c.request("GET", c.sessionPath("/window/current/size"), nil)
	if err != nil {
		return WindowSize{}, err
	}

	var resp struct {
		Value WindowSize `json:"value"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return WindowSize{}, fmt.Errorf("parse window size: %w", err)
	}

	if resp.Value.Width == 0 || resp.Value.Height == 0 {
		return WindowSize{}, fmt.Errorf("invalid window size %dx%d",
			resp.Value.Width, resp.Value.Height)
	}

	return resp.Value, nil
}

func decodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return data, nil
}
