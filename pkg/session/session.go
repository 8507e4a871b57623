// Package session tracks per-student exam sessions: one behavior tracker
// plus frame accounting and the coarse warning level shown to proctors.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quizsecure/quizsecure/pkg/behavior"
)

// Warning escalation for frame-level suspicious behavior (missing or extra
// faces). Distinct from the tracker's gaze thresholds.
const (
	warningLevelThreshold = 2
	criticalLevelThreshold = 3

	// inactiveAfter is how long without a frame before a session is
	// reported inactive.
	inactiveAfter = 60 * time.Second
)

// AlertLevel is the coarse per-session alert state.
type AlertLevel string

const (
	LevelNormal   AlertLevel = "normal"
	LevelWarning  AlertLevel = "warning"
	LevelCritical AlertLevel = "critical"
)

// Session is one student's monitoring session.
type Session struct {
	mu sync.Mutex

	id        string
	studentID string
	tracker   *behavior.Tracker

	warnings    int
	alertActive bool
	totalFrames int
	lastUpdate  time.Time
	started     time.Time
	now         func() time.Time
}

// Status is the externally visible session state.
type Status struct {
	SessionID     string            `json:"session_id"`
	StudentID     string            `json:"student_id"`
	Warnings      int               `json:"warnings"`
	AlertLevel    AlertLevel        `json:"alert_level"`
	AlertActive   bool              `json:"alert_active"`
	TotalFrames   int               `json:"total_frames"`
	LastUpdate    float64           `json:"last_update"`
	SessionActive bool              `json:"session_active"`
	Behavior      behavior.Snapshot `json:"behavior"`
}

func newSession(studentID string, cfg behavior.Config, now func() time.Time) *Session {
	return &Session{
		id:        uuid.New().String(),
		studentID: studentID,
		tracker:   behavior.NewWithClock(cfg, now),
		started:   now(),
		lastUpdate: now(),
		now:       now,
	}
}

// ID returns the session's UUID.
func (s *Session) ID() string { return s.id }

// StudentID returns the student this session monitors.
func (s *Session) StudentID() string { return s.studentID }

// Tracker exposes the underlying behavior tracker.
func (s *Session) Tracker() *behavior.Tracker { return s.tracker }

// RecordFrame accounts one processed frame: updates the gaze tracker and
// escalates or decays the warning count based on frame-level flags.
// A clean frame (no suspicious behaviors) decays warnings by one.
func (s *Session) RecordFrame(pitch, yaw float64, suspicious []string) Status {
	s.mu.Lock()
	s.totalFrames++
	s.lastUpdate = s.now()
	if len(suspicious) > 0 {
		s.warnings++
	} else if s.warnings > 0 {
		s.warnings--
	}
	s.mu.Unlock()

	snap := s.tracker.Update(pitch, yaw)
	return s.status(snap)
}

// Status returns the current session status without consuming a frame.
func (s *Session) Status() Status {
	return s.status(s.tracker.Snapshot())
}

// Reset restarts the session's accounting and behavior tracking.
func (s *Session) Reset() {
	s.mu.Lock()
	s.warnings = 0
	s.alertActive = false
	s.totalFrames = 0
	s.lastUpdate = s.now()
	s.started = s.now()
	s.mu.Unlock()

	s.tracker.Reset()
}

func (s *Session) status(snap behavior.Snapshot) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	level := LevelNormal
	switch {
	case s.warnings >= criticalLevelThreshold:
		level = LevelCritical
		s.alertActive = true
	case s.warnings >= warningLevelThreshold:
		level = LevelWarning
	default:
		s.alertActive = false
	}

	return Status{
		SessionID:     s.id,
		StudentID:     s.studentID,
		Warnings:      s.warnings,
		AlertLevel:    level,
		AlertActive:   s.alertActive,
		TotalFrames:   s.totalFrames,
		LastUpdate:    float64(s.lastUpdate.UnixNano()) / 1e9,
		SessionActive: s.now().Sub(s.lastUpdate) < inactiveAfter,
		Behavior:      snap,
	}
}
