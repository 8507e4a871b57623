// Package behavior converts a stream of gaze angle samples into a discrete
// attention state with distraction accounting and debounced alerting.
package behavior

import (
	"sync"
	"time"
)

// Gaze is a single (pitch, yaw) angle pair in radians.
type Gaze struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Snapshot is the tracker's view of the session after one update. Field
// names match the dashboard wire format.
type Snapshot struct {
	State           State   `json:"state"`
	AlertCount      int     `json:"alert_count"`
	TotalDistracted float64 `json:"total_distraction_time"`
	SessionDuration float64 `json:"session_duration"`
	FocusPercentage float64 `json:"focus_percentage"`
	CurrentGaze     Gaze    `json:"current_gaze"`
	LookingAtScreen bool    `json:"looking_at_screen"`
	RecentEvents    []Event `json:"recent_events"`
}

// recentEventCount is how many log entries a snapshot exposes.
const recentEventCount = 5

// Tracker is the behavior state machine for one exam session.
//
// A tracker is driven by a single sample producer. The internal mutex only
// makes concurrent readers (status handlers, overlay renderers) safe against
// the producer; it does not make multiple concurrent producers meaningful.
type Tracker struct {
	mu  sync.Mutex
	cfg Config
	now func() time.Time

	state           State
	sessionStart    time.Time
	lookingAwaySince time.Time
	awaySet         bool
	totalDistracted time.Duration
	alertCount      int
	lastAlert       time.Time

	// events is a bounded ring; head points at the oldest entry.
	events []Event
	head   int
	full   bool
}

// New creates a tracker with the given config. The session clock starts now.
func New(cfg Config) *Tracker {
	return newTracker(cfg, time.Now)
}

// NewWithClock creates a tracker driven by an injected clock. Callers that
// already carry a clock (sessions, tests) pass it through so all timing in
// one session comes from the same source.
func NewWithClock(cfg Config, now func() time.Time) *Tracker {
	return newTracker(cfg, now)
}

// newTracker allows tests to inject a deterministic clock.
func newTracker(cfg Config, now func() time.Time) *Tracker {
	if cfg.EventLogSize <= 0 {
		cfg.EventLogSize = DefaultConfig().EventLogSize
	}
	return &Tracker{
		cfg:          cfg,
		now:          now,
		state:        StateInitializing,
		sessionStart: now(),
		events:       make([]Event, 0, cfg.EventLogSize),
	}
}

// Config returns the tracker's construction-time configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Update consumes one gaze sample and returns the resulting snapshot.
// It is a total function: non-finite angles fail the bounds check and are
// handled as "not looking at screen".
func (t *Tracker) Update(pitch, yaw float64) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	looking := t.cfg.ScreenBounds.Contains(pitch, yaw)

	if looking {
		if t.awaySet {
			away := now.Sub(t.lookingAwaySince)
			t.totalDistracted += away
			t.appendEvent(Event{
				Kind:      EventDistractionEnd,
				Timestamp: unixSeconds(now),
				Duration:  away.Seconds(),
			})
			t.awaySet = false
			t.state = StateReturned
		} else {
			t.state = StateFocused
		}
	} else {
		if !t.awaySet {
			t.lookingAwaySince = now
			t.awaySet = true
			t.state = StateDistracted
			t.appendEvent(Event{
				Kind:      EventDistractionStart,
				Timestamp: unixSeconds(now),
				Pitch:     pitch,
				Yaw:       yaw,
			})
		} else {
			away := now.Sub(t.lookingAwaySince)
			switch {
			case away > t.cfg.CriticalThreshold:
				// The alert counter is debounced, but the state holds at
				// CRITICAL_ALERT the whole time the gaze is over-threshold.
				if now.Sub(t.lastAlert) > t.cfg.AlertDebounce {
					t.alertCount++
					t.lastAlert = now
					t.appendEvent(Event{
						Kind:      EventCriticalAlert,
						Timestamp: unixSeconds(now),
						Duration:  away.Seconds(),
					})
				}
				t.state = StateCriticalAlert
			case away > t.cfg.DistractionThreshold:
				t.state = StateWarning
			default:
				t.state = StateDistracted
			}
		}
	}

	return t.snapshotLocked(now, Gaze{Pitch: pitch, Yaw: yaw}, looking)
}

// Snapshot returns the current session view without consuming a sample.
// The reported gaze is zero and looking_at_screen reflects only the state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	looking := t.state == StateFocused || t.state == StateReturned
	return t.snapshotLocked(t.now(), Gaze{}, looking)
}

// State returns the current attention state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// AlertCount returns the number of counted critical alerts.
func (t *Tracker) AlertCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.alertCount
}

// Reset reinitializes the session: counters zeroed, log discarded, session
// clock restarted, state back to INITIALIZING.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateInitializing
	t.sessionStart = t.now()
	t.awaySet = false
	t.lookingAwaySince = time.Time{}
	t.totalDistracted = 0
	t.alertCount = 0
	t.lastAlert = time.Time{}
	t.events = t.events[:0]
	t.head = 0
	t.full = false
}

// Events returns up to n most recent log entries, oldest first.
func (t *Tracker) Events(n int) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recentLocked(n)
}

func (t *Tracker) snapshotLocked(now time.Time, gaze Gaze, looking bool) Snapshot {
	sessionDur := now.Sub(t.sessionStart).Seconds()
	distracted := t.totalDistracted.Seconds()

	focus := 100.0
	if sessionDur > 0 {
		focus = 100 * (1 - distracted/sessionDur)
		if focus < 0 {
			focus = 0
		}
		if focus > 100 {
			focus = 100
		}
	}

	return Snapshot{
		State:           t.state,
		AlertCount:      t.alertCount,
		TotalDistracted: distracted,
		SessionDuration: sessionDur,
		FocusPercentage: focus,
		CurrentGaze:     gaze,
		LookingAtScreen: looking,
		RecentEvents:    t.recentLocked(recentEventCount),
	}
}

func (t *Tracker) appendEvent(e Event) {
	if len(t.events) < cap(t.events) && !t.full {
		t.events = append(t.events, e)
		if len(t.events) == cap(t.events) {
			t.full = true
		}
		return
	}
	// Ring is full: overwrite the oldest slot.
	t.events[t.head] = e
	t.head = (t.head + 1) % len(t.events)
}

func (t *Tracker) recentLocked(n int) []Event {
	total := len(t.events)
	if n > total {
		n = total
	}
	if n <= 0 {
		return []Event{}
	}
	out := make([]Event, 0, n)
	start := total - n
	for i := start; i < total; i++ {
		idx := i
		if t.full {
			idx = (t.head + i) % total
		}
		out = append(out, t.events[idx])
	}
	return out
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
