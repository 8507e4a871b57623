// Package detect provides face detection for exam-proctoring signals.
// The tracker only needs gaze angles; detection exists to flag frames with
// no face or with more than one face in them.
package detect

// Detection represents a detected face
type Detection struct {
	X, Y       float64 // Top-left position (0-1 normalized)
	W, H       float64 // Width and height (0-1 normalized)
	Confidence float64 // Detection confidence (0-1)
}

// Center returns the center point of the detection
func (d Detection) Center() (x, y float64) {
	return d.X + d.W/2, d.Y + d.H/2
}

// Area returns the area of the bounding box
func (d Detection) Area() float64 {
	return d.W * d.H
}

// Detector is the interface for face detection backends
type Detector interface {
	// Detect finds faces in the JPEG image and returns their positions
	Detect(jpeg []byte) ([]Detection, error)

	// Close releases resources
	Close() error
}

// Config holds detector configuration
type Config struct {
	ModelPath        string  // Path to ONNX model
	ConfidenceThresh float64 // Minimum confidence (default 0.5)
	InputWidth       int     // Model input width
	InputHeight      int     // Model input height
}

// DefaultConfig returns production defaults for YuNet
func DefaultConfig() Config {
	return Config{
		ModelPath:        "models/face_detection_yunet.onnx",
		ConfidenceThresh: 0.5,
		InputWidth:       320,
		InputHeight:      320,
	}
}

// Suspicious behavior labels raised from face counts, carried through to
// the session audit log.
const (
	BehaviorNoFace        = "no_face_detected"
	BehaviorMultipleFaces = "multiple_faces_detected"
)

// SuspiciousBehaviors maps a face count to the proctoring flags it raises.
// Exactly one visible face is the clean case.
func SuspiciousBehaviors(faces int) []string {
	switch {
	case faces == 0:
		return []string{BehaviorNoFace}
	case faces > 1:
		return []string{BehaviorMultipleFaces}
	default:
		return nil
	}
}
