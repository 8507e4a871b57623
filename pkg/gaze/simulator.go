package gaze

import (
	"context"
	"math"
	"sync"
	"time"
)

// Simulator produces a slowly wandering gaze for demos and tests when no
// camera or model server is available. The gaze drifts in and out of
// typical screen bounds so the tracker exercises its full state machine.
type Simulator struct {
	mu    sync.Mutex
	start time.Time
	now   func() time.Time

	// Amplitudes of the wander. Defaults exceed the default screen bounds
	// so distractions actually occur.
	PitchAmplitude float64
	YawAmplitude   float64
}

// NewSimulator creates a simulator starting at the current time.
func NewSimulator() *Simulator {
	return newSimulator(time.Now)
}

func newSimulator(now func() time.Time) *Simulator {
	return &Simulator{
		start:          now(),
		now:            now,
		PitchAmplitude: 0.35,
		YawAmplitude:   0.55,
	}
}

// Name implements Source.
func (s *Simulator) Name() string { return "simulator" }

// Estimate ignores the frame and returns the wander position for "now".
func (s *Simulator) Estimate(_ context.Context, _ []byte) (Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t := now.Sub(s.start).Seconds()

	return Sample{
		// Different frequencies so the path is a Lissajous curve rather
		// than a diagonal line.
		Pitch:        s.PitchAmplitude * math.Sin(0.3*t),
		Yaw:          s.YawAmplitude * math.Cos(0.5*t),
		FaceDetected: true,
		Faces:        1,
		Timestamp:    now,
	}, nil
}

// Close implements Source.
func (s *Simulator) Close() error { return nil }
