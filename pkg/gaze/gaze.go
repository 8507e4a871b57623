// Package gaze provides gaze-angle sources: a client for the external
// gaze-estimation model service and a simulator for camera-less runs.
package gaze

import (
	"context"
	"time"
)

// Sample is one estimated gaze direction in radians. Yaw is horizontal,
// pitch vertical, relative to a forward-facing reference.
type Sample struct {
	Pitch        float64   `json:"pitch"`
	Yaw          float64   `json:"yaw"`
	FaceDetected bool      `json:"face_detected"`
	Faces        int       `json:"faces"`
	Timestamp    time.Time `json:"-"`
}

// Source produces one gaze sample per camera frame. Implementations must be
// safe for use from a single monitor loop; they are not required to support
// concurrent Estimate calls.
type Source interface {
	// Estimate returns the gaze sample for the given JPEG frame. Sources
	// that do not consume frames (the simulator) ignore the argument.
	Estimate(ctx context.Context, jpegFrame []byte) (Sample, error)

	// Name identifies the source on the dashboard ("estimator", "simulator").
	Name() string

	Close() error
}
