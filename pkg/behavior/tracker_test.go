package behavior

import (
	"math"
	"testing"
	"time"
)

// fakeClock drives a tracker deterministically in tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker(c *fakeClock) *Tracker {
	return newTracker(DefaultConfig(), c.now)
}

func TestUpdate_FocusedInsideBounds(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTracker(clock)

	tests := []struct {
		name       string
		pitch, yaw float64
	}{
		{"center", 0, 0},
		{"yaw at max", 0, 0.4},
		{"yaw at min", 0, -0.4},
		{"pitch at max", 0.3, 0},
		{"pitch at min", -0.3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock.advance(time.Second)
			snap := tr.Update(tt.pitch, tt.yaw)
			if !snap.LookingAtScreen {
				t.Error("expected looking_at_screen true")
			}
			if snap.State != StateFocused {
				t.Errorf("state = %v, want FOCUSED", snap.State)
			}
		})
	}
}

func TestUpdate_DistractionStart(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTracker(clock)

	tr.Update(0, 0)
	clock.advance(time.Second)
	snap := tr.Update(0, 0.9)

	if snap.LookingAtScreen {
		t.Error("expected looking_at_screen false outside bounds")
	}
	if snap.State != StateDistracted {
		t.Errorf("state = %v, want DISTRACTED", snap.State)
	}
	events := snap.RecentEvents
	if len(events) != 1 {
		t.Fatalf("event log length = %d, want 1", len(events))
	}
	if events[0].Kind != EventDistractionStart {
		t.Errorf("event kind = %v, want DISTRACTION_START", events[0].Kind)
	}
	if events[0].Yaw != 0.9 {
		t.Errorf("start event yaw = %v, want 0.9", events[0].Yaw)
	}
}

func TestUpdate_WarningDoesNotAlert(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTracker(clock)

	tr.Update(0, 0.9) // distraction starts
	clock.advance(3 * time.Second)
	snap := tr.Update(0, 0.9)

	if snap.State != StateWarning {
		t.Errorf("state = %v, want WARNING", snap.State)
	}
	if snap.AlertCount != 0 {
		t.Errorf("alert_count = %d, want 0", snap.AlertCount)
	}
}

func TestUpdate_CriticalAlertDebounce(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTracker(clock)

	tr.Update(0, 0.9)
	clock.advance(4500 * time.Millisecond)
	snap := tr.Update(0, 0.9)
	if snap.State != StateCriticalAlert {
		t.Fatalf("state = %v, want CRITICAL_ALERT", snap.State)
	}
	if snap.AlertCount != 1 {
		t.Fatalf("alert_count = %d, want 1 at first crossing", snap.AlertCount)
	}

	// Still away, inside the debounce window: state stays critical but the
	// counter must not move.
	clock.advance(time.Second)
	snap = tr.Update(0, 0.9)
	if snap.State != StateCriticalAlert {
		t.Errorf("state = %v, want CRITICAL_ALERT during debounce", snap.State)
	}
	if snap.AlertCount != 1 {
		t.Errorf("alert_count = %d, want 1 during debounce", snap.AlertCount)
	}

	// Past the debounce window the counter fires again.
	clock.advance(1500 * time.Millisecond)
	snap = tr.Update(0, 0.9)
	if snap.AlertCount != 2 {
		t.Errorf("alert_count = %d, want 2 after debounce window", snap.AlertCount)
	}
}

func TestUpdate_ReturnToScreen(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTracker(clock)

	tr.Update(0, 0)
	clock.advance(time.Second)
	tr.Update(0, 0.9)
	clock.advance(3 * time.Second)
	snap := tr.Update(0, 0)

	if snap.State != StateReturned {
		t.Errorf("state = %v, want RETURNED_TO_SCREEN", snap.State)
	}
	if math.Abs(snap.TotalDistracted-3.0) > 1e-9 {
		t.Errorf("total_distraction_time = %v, want 3.0", snap.TotalDistracted)
	}

	events := snap.RecentEvents
	last := events[len(events)-1]
	if last.Kind != EventDistractionEnd {
		t.Fatalf("last event = %v, want DISTRACTION_END", last.Kind)
	}
	if math.Abs(last.Duration-3.0) > 1e-9 {
		t.Errorf("end event duration = %v, want 3.0", last.Duration)
	}

	// RETURNED_TO_SCREEN is transitional: the next focused sample replaces it.
	clock.advance(time.Second)
	snap = tr.Update(0, 0)
	if snap.State != StateFocused {
		t.Errorf("state = %v, want FOCUSED after transitional tick", snap.State)
	}
}

// TestUpdate_Scenario replays the canonical session: focus, look away,
// critical alert, return.
func TestUpdate_Scenario(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTracker(clock)

	snap := tr.Update(0, 0)
	if snap.State != StateFocused {
		t.Fatalf("t=0: state = %v, want FOCUSED", snap.State)
	}

	clock.advance(time.Second)
	snap = tr.Update(0, 0.9)
	if snap.State != StateDistracted {
		t.Fatalf("t=1: state = %v, want DISTRACTED", snap.State)
	}
	if len(snap.RecentEvents) != 1 {
		t.Fatalf("t=1: log length = %d, want 1", len(snap.RecentEvents))
	}

	clock.advance(3500 * time.Millisecond)
	snap = tr.Update(0, 0.9)
	if snap.State != StateCriticalAlert {
		t.Fatalf("t=4.5: state = %v, want CRITICAL_ALERT", snap.State)
	}
	if snap.AlertCount != 1 {
		t.Fatalf("t=4.5: alert_count = %d, want 1", snap.AlertCount)
	}

	clock.advance(500 * time.Millisecond)
	snap = tr.Update(0, 0)
	if snap.State != StateReturned {
		t.Fatalf("t=5: state = %v, want RETURNED_TO_SCREEN", snap.State)
	}
	if math.Abs(snap.TotalDistracted-4.0) > 0.01 {
		t.Errorf("t=5: total_distraction_time = %v, want ~4.0", snap.TotalDistracted)
	}
}

func TestReset(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTracker(clock)

	tr.Update(0, 0.9)
	clock.advance(5 * time.Second)
	tr.Update(0, 0.9)
	clock.advance(time.Second)
	tr.Update(0, 0)

	tr.Reset()

	if tr.State() != StateInitializing {
		t.Errorf("state = %v, want INITIALIZING", tr.State())
	}
	if tr.AlertCount() != 0 {
		t.Errorf("alert_count = %d, want 0", tr.AlertCount())
	}
	snap := tr.Snapshot()
	if snap.TotalDistracted != 0 {
		t.Errorf("total_distraction_time = %v, want 0", snap.TotalDistracted)
	}
	if len(snap.RecentEvents) != 0 {
		t.Errorf("recent_events length = %d, want 0", len(snap.RecentEvents))
	}
}

func TestFocusPercentage_Bounded(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTracker(clock)

	// Zero-duration session: no division, treated as fully focused.
	snap := tr.Update(0, 0)
	if snap.FocusPercentage != 100 {
		t.Errorf("focus at t=0 = %v, want 100", snap.FocusPercentage)
	}

	// Alternate in and out of bounds; focus must stay in [0,100].
	for i := 0; i < 50; i++ {
		clock.advance(500 * time.Millisecond)
		yaw := 0.0
		if i%2 == 0 {
			yaw = 1.2
		}
		snap = tr.Update(0, yaw)
		if snap.FocusPercentage < 0 || snap.FocusPercentage > 100 {
			t.Fatalf("focus = %v out of [0,100] at step %d", snap.FocusPercentage, i)
		}
	}
}

func TestUpdate_NonFiniteTreatedAsAway(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTracker(clock)

	tests := []struct {
		name       string
		pitch, yaw float64
	}{
		{"nan yaw", 0, math.NaN()},
		{"nan pitch", math.NaN(), 0},
		{"positive inf", 0, math.Inf(1)},
		{"negative inf", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr.Reset()
			clock.advance(time.Second)
			snap := tr.Update(tt.pitch, tt.yaw)
			if snap.LookingAtScreen {
				t.Error("non-finite sample must not count as looking at screen")
			}
			if snap.State != StateDistracted {
				t.Errorf("state = %v, want DISTRACTED", snap.State)
			}
		})
	}
}

func TestEventLog_Bounded(t *testing.T) {
	clock := newFakeClock()
	cfg := DefaultConfig()
	cfg.EventLogSize = 8
	tr := newTracker(cfg, clock.now)

	// Each in/out pair appends a START and an END.
	for i := 0; i < 20; i++ {
		clock.advance(time.Second)
		tr.Update(0, 1.0)
		clock.advance(time.Second)
		tr.Update(0, 0)
	}

	events := tr.Events(100)
	if len(events) != 8 {
		t.Fatalf("log length = %d, want ring cap 8", len(events))
	}
	// Ring keeps the newest entries: the last one is the final END.
	if events[len(events)-1].Kind != EventDistractionEnd {
		t.Errorf("newest event = %v, want DISTRACTION_END", events[len(events)-1].Kind)
	}
	// Oldest-first ordering within the window.
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp < events[i-1].Timestamp {
			t.Fatalf("events out of order at %d", i)
		}
	}
}

func TestStatusColor(t *testing.T) {
	tests := []struct {
		state State
		want  Color
	}{
		{StateFocused, Color{0, 255, 0}},
		{StateDistracted, Color{255, 255, 0}},
		{StateWarning, Color{255, 165, 0}},
		{StateCriticalAlert, Color{255, 0, 0}},
		{StateReturned, Color{255, 0, 255}},
		{StateInitializing, Color{128, 128, 128}},
		{State(99), Color{255, 255, 255}},
	}
	for _, tt := range tests {
		if got := StatusColor(tt.state); got != tt.want {
			t.Errorf("StatusColor(%v) = %v, want %v", tt.state, got, tt.want)
		}
	}
}
