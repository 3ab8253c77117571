package step

import (
	"regexp"
	"strconv"
	"strings"
)

// typeKeywords mark the start of text to type. The trailing space matters:
// "press enter" contains "enter" but carries no text payload.
var typeKeywords = []string{"type ", "input ", "enter ", "text "}

// typeSuffixes are trailing phrases stripped from typed text.
var typeSuffixes = []string{" and press enter", " and send"}

// nonVisualWords identify steps that act on the whole screen and need no
// element location before executing.
var nonVisualWords = []string{"scroll", "swipe", "back", "home", "wait"}

var waitPattern = regexp.MustCompile(`wait\s+(\d+)`)

// DefaultWaitSeconds is used when a wait step names no duration.
const DefaultWaitSeconds = 2.0

// Parse classifies a natural-language step into a device action.
// Classification is keyword-driven and ordered: type > scroll/swipe >
// press/back/home > wait > tap. Parse never fails; steps that resolve to an
// action with missing details (e.g. "press" with no key) fail at execution.
func Parse(raw string) Step {
	s := Step{Raw: strings.TrimSpace(raw)}
	lower := strings.ToLower(s.Raw)

	switch {
	case hasTypeKeyword(lower):
		s.Kind = KindType
		s.Text = extractText(s.Raw, lower)

	case strings.Contains(lower, "scroll"), strings.Contains(lower, "swipe"):
		if strings.Contains(lower, "swipe") {
			s.Kind = KindSwipe
		} else {
			s.Kind = KindScroll
		}
		s.Direction = extractDirection(lower)

	case strings.Contains(lower, "press"), strings.Contains(lower, "back"):
		s.Kind = KindPress
		s.Key = extractKey(lower)

	case strings.Contains(lower, "wait"):
		s.Kind = KindWait
		s.WaitSeconds = extractWaitSeconds(lower)

	default:
		s.Kind = KindTap
	}

	return s
}

// NonVisual reports whether the step acts on the whole screen and can be
// executed without locating an element first.
func (s Step) NonVisual() bool {
	lower := strings.ToLower(s.Raw)
	for _, w := range nonVisualWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// LocationOptional reports whether the step may proceed without a located
// point. Type steps target the focused field, so a failed lookup is not
// fatal for them.
func (s Step) LocationOptional() bool {
	return strings.Contains(strings.ToLower(s.Raw), "type")
}

func hasTypeKeyword(lower string) bool {
	for _, kw := range typeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// extractText returns the text payload following the first type keyword,
// preserving the original casing of the step.
func extractText(raw, lower string) string {
	for _, kw := range typeKeywords {
		idx := strings.Index(lower, kw)
		if idx == -1 {
			continue
		}
		text := raw[idx+len(kw):]
		tl := strings.ToLower(text)
		for _, suffix := range typeSuffixes {
			if pos := strings.Index(tl, suffix); pos != -1 {
				text = text[:pos]
				tl = tl[:pos]
			}
		}
		return strings.TrimSpace(text)
	}
	return ""
}

func extractDirection(lower string) Direction {
	switch {
	case strings.Contains(lower, "up"):
		return DirectionUp
	case strings.Contains(lower, "left"):
		return DirectionLeft
	case strings.Contains(lower, "right"):
		return DirectionRight
	default:
		return DirectionDown
	}
}

func extractKey(lower string) Key {
	switch {
	case strings.Contains(lower, "back"):
		return KeyBack
	case strings.Contains(lower, "home"):
		return KeyHome
	case strings.Contains(lower, "enter"):
		return KeyEnter
	default:
		return ""
	}
}

func extractWaitSeconds(lower string) float64 {
	if m := waitPattern.FindStringSubmatch(lower); m != nil {
		if secs, err := strconv.Atoi(m[1]); err == nil {
			return float64(secs)
		}
	}
	return DefaultWaitSeconds
}
