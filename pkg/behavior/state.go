package behavior

// State is the discrete attention state of a monitored student.
type State int

const (
	// StateInitializing is the state before the first gaze sample arrives.
	StateInitializing State = iota
	// StateFocused means the gaze is inside the screen bounds.
	StateFocused
	// StateDistracted means the gaze just left the screen bounds.
	StateDistracted
	// StateWarning means the gaze has been away longer than the
	// distraction threshold.
	StateWarning
	// StateCriticalAlert means the gaze has been away longer than the
	// critical threshold.
	StateCriticalAlert
	// StateReturned is the single-sample transitional state emitted on the
	// first update after the gaze comes back inside the bounds.
	StateReturned
)

// String returns the wire name for the state. These names are part of the
// dashboard protocol, not just debug output.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "INITIALIZING"
	case StateFocused:
		return "FOCUSED"
	case StateDistracted:
		return "DISTRACTED"
	case StateWarning:
		return "WARNING"
	case StateCriticalAlert:
		return "CRITICAL_ALERT"
	case StateReturned:
		return "RETURNED_TO_SCREEN"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler so snapshots serialize the
// state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Color is an RGB display color for a state.
type Color struct {
	R, G, B uint8
}

// StatusColor maps a state to its display color. Total over all states;
// anything unrecognized maps to white.
func StatusColor(s State) Color {
	switch s {
	case StateFocused:
		return Color{0, 255, 0} // green
	case StateDistracted:
		return Color{255, 255, 0} // yellow
	case StateWarning:
		return Color{255, 165, 0} // orange
	case StateCriticalAlert:
		return Color{255, 0, 0} // red
	case StateReturned:
		return Color{255, 0, 255} // magenta
	case StateInitializing:
		return Color{128, 128, 128} // gray
	default:
		return Color{255, 255, 255}
	}
}

// EventKind identifies an entry in the distraction log.
type EventKind string

const (
	// EventDistractionStart is logged when the gaze first leaves the bounds.
	EventDistractionStart EventKind = "DISTRACTION_START"
	// EventDistractionEnd is logged when the gaze returns, with the
	// duration of the away-period.
	EventDistractionEnd EventKind = "DISTRACTION_END"
	// EventCriticalAlert is logged when an alert fires, with the running
	// away-duration at that moment.
	EventCriticalAlert EventKind = "CRITICAL_ALERT"
)

// Event is one append-only distraction log entry.
type Event struct {
	Kind      EventKind `json:"event"`
	Timestamp float64   `json:"timestamp"`
	// Duration is set for DISTRACTION_END and CRITICAL_ALERT events.
	Duration float64 `json:"duration,omitempty"`
	// Pitch and Yaw are set for DISTRACTION_START events, recording where
	// the gaze went.
	Pitch float64 `json:"gaze_pitch,omitempty"`
	Yaw   float64 `json:"gaze_yaw,omitempty"`
}
