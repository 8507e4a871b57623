package protocol

import (
	"encoding/base64"
	"math"

	"github.com/quizsecure/quizsecure/pkg/behavior"
)

// NewGazeUpdate builds the per-frame dashboard message from a tracker
// snapshot. jpegFrame may be nil when no camera frame is available.
func NewGazeUpdate(snap behavior.Snapshot, jpegFrame []byte, faces int, system string) (*Message, error) {
	data := GazeUpdateData{
		Status:          snap.State.String(),
		Alerts:          snap.AlertCount,
		Focus:           math.Round(snap.FocusPercentage*10) / 10,
		SessionTime:     int(snap.SessionDuration),
		Gaze:            GazeData{Pitch: snap.CurrentGaze.Pitch, Yaw: snap.CurrentGaze.Yaw},
		LookingAtScreen: snap.LookingAtScreen,
		FacesDetected:   faces,
		System:          system,
	}
	if len(jpegFrame) > 0 {
		data.Frame = base64.StdEncoding.EncodeToString(jpegFrame)
	}
	return NewMessage(TypeGazeUpdate, data)
}

// NewSessionReset builds the reset confirmation message.
func NewSessionReset(sessionID string) (*Message, error) {
	return NewMessage(TypeSessionReset, SessionResetData{
		SessionID: sessionID,
		Message:   "Session reset",
	})
}

// NewAlert builds a critical alert announcement.
func NewAlert(sessionID string, count int, duration float64) (*Message, error) {
	return NewMessage(TypeAlert, AlertData{
		SessionID:  sessionID,
		AlertCount: count,
		Duration:   duration,
	})
}
