package behavior

import "time"

// Bounds is the rectangle in (yaw, pitch) space considered "looking at the
// screen". Angles are radians; yaw is horizontal, pitch vertical.
type Bounds struct {
	YawMin   float64 `json:"yaw_min" yaml:"yaw_min"`
	YawMax   float64 `json:"yaw_max" yaml:"yaw_max"`
	PitchMin float64 `json:"pitch_min" yaml:"pitch_min"`
	PitchMax float64 `json:"pitch_max" yaml:"pitch_max"`
}

// Contains reports whether a gaze sample falls inside the rectangle.
// NaN fails every comparison and ±Inf falls outside any finite bound, so
// non-finite samples are simply treated as not looking at the screen.
func (b Bounds) Contains(pitch, yaw float64) bool {
	return b.YawMin <= yaw && yaw <= b.YawMax &&
		b.PitchMin <= pitch && pitch <= b.PitchMax
}

// Config holds the tunable parameters for a behavior tracker.
// Fixed at construction; per-session.
type Config struct {
	// ScreenBounds is the gaze region counted as focused.
	ScreenBounds Bounds

	// DistractionThreshold is how long the gaze may be away before the
	// state escalates to WARNING.
	DistractionThreshold time.Duration

	// CriticalThreshold is how long the gaze may be away before the state
	// escalates to CRITICAL_ALERT and alert counting begins.
	CriticalThreshold time.Duration

	// AlertDebounce is the minimum spacing between two counted alerts, so
	// one sustained distraction is not counted every frame.
	AlertDebounce time.Duration

	// EventLogSize bounds the in-memory distraction log. Older entries are
	// dropped; long-term retention is the archiver's job.
	EventLogSize int
}

// DefaultConfig returns the tracker parameters used by the exam monitor.
// Bounds assume a laptop webcam centered above the screen.
func DefaultConfig() Config {
	return Config{
		ScreenBounds: Bounds{
			YawMin:   -0.4,
			YawMax:   0.4,
			PitchMin: -0.3,
			PitchMax: 0.3,
		},
		DistractionThreshold: 2 * time.Second,
		CriticalThreshold:    4 * time.Second,
		AlertDebounce:        2 * time.Second,
		EventLogSize:         256,
	}
}

// StrictConfig returns a configuration for high-stakes exams: tighter
// bounds and faster escalation.
func StrictConfig() Config {
	cfg := DefaultConfig()
	cfg.ScreenBounds = Bounds{YawMin: -0.3, YawMax: 0.3, PitchMin: -0.25, PitchMax: 0.25}
	cfg.DistractionThreshold = 1500 * time.Millisecond
	cfg.CriticalThreshold = 3 * time.Second
	return cfg
}

// RelaxedConfig returns a configuration for practice sessions where brief
// glances away should not escalate quickly.
func RelaxedConfig() Config {
	cfg := DefaultConfig()
	cfg.ScreenBounds = Bounds{YawMin: -0.5, YawMax: 0.5, PitchMin: -0.4, PitchMax: 0.4}
	cfg.DistractionThreshold = 3 * time.Second
	cfg.CriticalThreshold = 6 * time.Second
	cfg.AlertDebounce = 4 * time.Second
	return cfg
}
