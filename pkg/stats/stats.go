// Package stats tracks per-run automation metrics: vision API calls, device
// actions, auto-navigations and timing.
package stats

import (
	"math"
	"sync"
	"time"
)

// Detection sources.
const (
	SourceVision      = "vision"
	SourceUIAutomator = "uiautomator"
)

// Tracker accumulates counters for a single test run.
// All methods are safe for concurrent use.
type Tracker struct {
	mu sync.Mutex

	// Vision API call tracking
	queryCalls     int
	pointCalls     int
	reasoningCalls int

	// Action tracking
	actionsPerformed  int
	successfulActions int
	failedActions     int

	// Navigation tracking
	autoNavigations int

	// Element detection tracking
	visionDetections      int
	uiautomatorDetections int

	// Timing
	startTime time.Time
	endTime   time.Time
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// StartRun marks the run start time.
func (t *Tracker) StartRun() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startTime = time.Now()
	t.endTime = time.Time{}
}

// EndRun marks the run end time.
func (t *Tracker) EndRun() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.endTime = time.Now()
}

// RecordQueryCall records a vision query API call.
func (t *Tracker) RecordQueryCall() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queryCalls++
}

// RecordPointCall records a vision point API call.
func (t *Tracker) RecordPointCall() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pointCalls++
}

// RecordReasoningCall records a reasoning/navigation vision call.
func (t *Tracker) RecordReasoningCall() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reasoningCalls++
}

// RecordAction records a device action outcome.
func (t *Tracker) RecordAction(success bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.actionsPerformed++
	if success {
		t.successfulActions++
	} else {
		t.failedActions++
	}
}

// RecordNavigation records an auto-navigation attempt.
func (t *Tracker) RecordNavigation() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.autoNavigations++
}

// RecordDetection records an element detection by source.
func (t *Tracker) RecordDetection(source string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch source {
	case SourceVision:
		t.visionDetections++
	case SourceUIAutomator:
		t.uiautomatorDetections++
	}
}

// Duration returns the run duration. Zero until both marks are set.
func (t *Tracker) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration()
}

func (t *Tracker) duration() time.Duration {
	if t.startTime.IsZero() || t.endTime.IsZero() {
		return 0
	}
	return t.endTime.Sub(t.startTime)
}

// SuccessRate returns the action success rate as a percentage.
func (t *Tracker) SuccessRate() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.successRate()
}

func (t *Tracker) successRate() float64 {
	if t.actionsPerformed == 0 {
		return 0
	}
	return float64(t.successfulActions) / float64(t.actionsPerformed) * 100
}

// Reset clears all counters.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queryCalls = 0
	t.pointCalls = 0
	t.reasoningCalls = 0
	t.actionsPerformed = 0
	t.successfulActions = 0
	t.failedActions = 0
	t.autoNavigations = 0
	t.visionDetections = 0
	t.uiautomatorDetections = 0
	t.startTime = time.Time{}
	t.endTime = time.Time{}
}

// Summary is the complete statistics snapshot for a run.
type Summary struct {
	Actions    ActionStats     `json:"actions"`
	APICalls   APICallStats    `json:"api_calls"`
	Detection  DetectionStats  `json:"detection"`
	Navigation NavigationStats `json:"navigation"`
	Timing     TimingStats     `json:"timing"`
}

// ActionStats summarizes device actions.
type ActionStats struct {
	Total       int     `json:"total"`
	Successful  int     `json:"successful"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

// APICallStats summarizes vision API usage.
type APICallStats struct {
	Query     int `json:"query"`
	Point     int `json:"point"`
	Reasoning int `json:"reasoning"`
	Total     int `json:"total"`
}

// DetectionStats summarizes element detections by source.
type DetectionStats struct {
	Vision           int     `json:"vision"`
	UIAutomator      int     `json:"uiautomator"`
	Total            int     `json:"total"`
	VisionPercentage float64 `json:"vision_percentage"`
}

// NavigationStats summarizes auto-navigation activity.
type NavigationStats struct {
	AutoNavigations int `json:"auto_navigations"`
}

// TimingStats summarizes run timing.
type TimingStats struct {
	DurationSeconds float64 `json:"duration_seconds"`
}

// Summary returns the complete statistics snapshot.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	totalDetections := t.visionDetections + t.uiautomatorDetections
	visionPct := 0.0
	if totalDetections > 0 {
		visionPct = round1(float64(t.visionDetections) / float64(totalDetections) * 100)
	}

	return Summary{
		Actions: ActionStats{
			Total:       t.actionsPerformed,
			Successful:  t.successfulActions,
			Failed:      t.failedActions,
			SuccessRate: round2(t.successRate()),
		},
		APICalls: APICallStats{
			Query:     t.queryCalls,
			Point:     t.pointCalls,
			Reasoning: t.reasoningCalls,
			Total:     t.queryCalls + t.pointCalls,
		},
		Detection: DetectionStats{
			Vision:           t.visionDetections,
			UIAutomator:      t.uiautomatorDetections,
			Total:            totalDetections,
			VisionPercentage: visionPct,
		},
		Navigation: NavigationStats{
			AutoNavigations: t.autoNavigations,
		},
		Timing: TimingStats{
			DurationSeconds: round2(t.duration().Seconds()),
		},
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
