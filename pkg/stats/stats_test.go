package stats

import (
	"sync"
	"testing"
)

func TestTrackerCounters(t *testing.T) {
	tr := NewTracker()

	tr.RecordQueryCall()
	tr.RecordQueryCall()
	tr.RecordPointCall()
	tr.RecordReasoningCall()
	tr.RecordAction(true)
	tr.RecordAction(true)
	tr.RecordAction(false)
	tr.RecordNavigation()
	tr.RecordDetection(SourceVision)
	tr.RecordDetection(SourceVision)
	tr.RecordDetection(SourceUIAutomator)

	s := tr.Summary()

	if s.APICalls.Query != 2 || s.APICalls.Point != 1 || s.APICalls.Reasoning != 1 {
		t.Errorf("api calls = %+v", s.APICalls)
	}
	if s.APICalls.Total != 3 {
		t.Errorf("api total = %d, want 3", s.APICalls.Total)
	}
	if s.Actions.Total != 3 || s.Actions.Successful != 2 || s.Actions.Failed != 1 {
		t.Errorf("actions = %+v", s.Actions)
	}
	if s.Navigation.AutoNavigations != 1 {
		t.Errorf("navigations = %d, want 1", s.Navigation.AutoNavigations)
	}
	if s.Detection.Vision != 2 || s.Detection.UIAutomator != 1 || s.Detection.Total != 3 {
		t.Errorf("detection = %+v", s.Detection)
	}
}

func TestSuccessRate(t *testing.T) {
	tr := NewTracker()

	if tr.SuccessRate() != 0 {
		t.Errorf("empty tracker rate = %v, want 0", tr.SuccessRate())
	}

	tr.RecordAction(true)
	tr.RecordAction(true)
	tr.RecordAction(true)
	tr.RecordAction(false)

	if got := tr.SuccessRate(); got != 75 {
		t.Errorf("SuccessRate() = %v, want 75", got)
	}
}

func TestVisionPercentage(t *testing.T) {
	tr := NewTracker()
	tr.RecordDetection(SourceVision)
	tr.RecordDetection(SourceVision)
	tr.RecordDetection(SourceUIAutomator)

	s := tr.Summary()
	if s.Detection.VisionPercentage != 66.7 {
		t.Errorf("VisionPercentage = %v, want 66.7", s.Detection.VisionPercentage)
	}
}

func TestReset(t *testing.T) {
	tr := NewTracker()
	tr.StartRun()
	tr.RecordQueryCall()
	tr.RecordAction(true)
	tr.RecordNavigation()
	tr.EndRun()

	tr.Reset()

	s := tr.Summary()
	if s.APICalls.Query != 0 || s.Actions.Total != 0 || s.Navigation.AutoNavigations != 0 {
		t.Errorf("counters survived reset: %+v", s)
	}
	if tr.Duration() != 0 {
		t.Errorf("duration survived reset: %v", tr.Duration())
	}
}

func TestDurationZeroUntilEnded(t *testing.T) {
	tr := NewTracker()
	tr.StartRun()
	if tr.Duration() != 0 {
		t.Error("duration should be zero before EndRun")
	}
	tr.EndRun()
	if tr.Duration() < 0 {
		t.Error("duration should not be negative")
	}
}

func TestTrackerConcurrency(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.RecordQueryCall()
				tr.RecordAction(j%2 == 0)
			}
		}()
	}
	wg.Wait()

	s := tr.Summary()
	if s.APICalls.Query != 1000 {
		t.Errorf("query calls = %d, want 1000", s.APICalls.Query)
	}
	if s.Actions.Total != 1000 {
		t.Errorf("actions = %d, want 1000", s.Actions.Total)
	}
}
