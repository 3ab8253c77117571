// Package step parses natural-language test steps into device actions.
package step

import "time"

// Kind represents the device action a step resolves to.
type Kind string

// Kind constants.
const (
	KindTap    Kind = "tap"
	KindType   Kind = "type"
	KindScroll Kind = "scroll"
	KindSwipe  Kind = "swipe"
	KindPress  Kind = "press"
	KindWait   Kind = "wait"
)

// Direction for scroll and swipe gestures.
type Direction string

// Direction constants.
const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Key represents a hardware/navigation key.
type Key string

// Key constants.
const (
	KeyBack  Key = "back"
	KeyHome  Key = "home"
	KeyEnter Key = "enter"
)

// Step is a parsed natural-language test step.
type Step struct {
	// Raw is the original step text, used as the vision locate target.
	Raw string

	Kind        Kind
	Text        string    // text to type (KindType)
	Direction   Direction // gesture direction (KindScroll, KindSwipe)
	Key         Key       // key to press (KindPress)
	WaitSeconds float64   // pause duration (KindWait)
}

// WaitDuration returns the wait pause as a time.Duration.
func (s Step) WaitDuration() time.Duration {
	return time.Duration(s.WaitSeconds * float64(time.Second))
}

// Describe returns a short human-readable description of the step.
func (s Step) Describe() string {
	if s.Raw != "" {
		return s.Raw
	}
	return string(s.Kind)
}
