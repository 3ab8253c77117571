package vision

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/core"
)

// navigationPrompt asks for exactly one action to reach an off-screen element.
const navigationPrompt = `I'm trying to find '%s' but it's not visible.

Looking at this screen, what single action should I take?
Respond with ONLY ONE action from these options:
- "scroll down"
- "scroll up"
- "press back"
- "click [specific element name]"
- "not possible"

Answer with just the action, nothing else.`

// CheckVisibility reports whether the named element is visible on screen.
func (c *Client) CheckVisibility(ctx context.Context, image []byte, element string) (bool, error) {
	question := fmt.Sprintf(
		"Is the %s visible on this screen? Answer only 'yes' or 'no'.", element)

	answer, err := c.Query(ctx, image, question)
	if err != nil {
		return false, err
	}

	if c.recorder != nil {
		c.recorder.RecordReasoningCall()
	}
	return strings.Contains(strings.ToLower(answer), "yes"), nil
}

// NavigationSuggestion asks for a single action that would reveal the goal
// element. Returns core.ErrNavigationNotPossible when the answer is not a
// recognized action.
func (c *Client) NavigationSuggestion(ctx context.Context, image []byte, goal string) (string, error) {
	answer, err := c.Query(ctx, image, fmt.Sprintf(navigationPrompt, goal))
	if err != nil {
		return "", err
	}

	if c.recorder != nil {
		c.recorder.RecordReasoningCall()
	}

	action := strings.ToLower(strings.TrimSpace(answer))
	for _, cmd := range []string{"scroll", "click", "press", "swipe", "not possible"} {
		if strings.Contains(action, cmd) {
			return action, nil
		}
	}

	return "", core.ErrNavigationNotPossible.WithMessage(
		fmt.Sprintf("unusable suggestion %q", action))
}

// Validate checks an expectation against the screenshot.
func (c *Client) Validate(ctx context.Context, image []byte, expectation string) (bool, error) {
	question := fmt.Sprintf(
		"Looking at this screen: %s? Answer only 'yes' or 'no'.", expectation)

	answer, err := c.Query(ctx, image, question)
	if err != nil {
		return false, err
	}

	return strings.Contains(strings.ToLower(answer), "yes"), nil
}
