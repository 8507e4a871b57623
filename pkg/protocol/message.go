// Package protocol defines the WebSocket message types exchanged between
// the quizsecure backend and dashboard/proctor clients.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Server → Client messages
	TypeGazeUpdate   MessageType = "gaze_update"   // Per-frame monitoring update
	TypeSessionReset MessageType = "session_reset" // Session was reset
	TypeAlert        MessageType = "alert"         // Critical alert fired

	// Client → Server messages
	TypeResetSession MessageType = "reset_session" // Request a session reset

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// =============================================================================
// Server → Client Message Types
// =============================================================================

// GazeData is one estimated gaze sample.
type GazeData struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// GazeUpdateData is the per-frame monitoring payload shown on the dashboard.
type GazeUpdateData struct {
	// Frame is the annotated camera frame, base64-encoded JPEG. Empty when
	// the server runs without a camera.
	Frame string `json:"frame,omitempty"`

	Status          string   `json:"status"` // behavior.State wire name
	Alerts          int      `json:"alerts"`
	Focus           float64  `json:"focus"`        // 0-100, one decimal
	SessionTime     int      `json:"session_time"` // whole seconds
	Gaze            GazeData `json:"gaze"`
	LookingAtScreen bool     `json:"looking_at_screen"`
	FacesDetected   int      `json:"faces_detected"`

	// System identifies the gaze pipeline in use ("estimator", "simulator").
	System string `json:"system"`
}

// SessionResetData confirms a reset to all viewers.
type SessionResetData struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// AlertData announces a counted critical alert.
type AlertData struct {
	SessionID  string  `json:"session_id,omitempty"`
	AlertCount int     `json:"alert_count"`
	Duration   float64 `json:"duration"` // seconds the gaze has been away
}

// =============================================================================
// Client → Server Message Types
// =============================================================================

// ResetSessionData asks the server to reset a session. An empty session ID
// targets the live monitor session.
type ResetSessionData struct {
	SessionID string `json:"session_id,omitempty"`
}
