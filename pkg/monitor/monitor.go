// Package monitor runs the live proctoring pipeline: camera frames in,
// gaze estimation, behavior tracking, annotated updates out to viewers.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/quizsecure/quizsecure/internal/log"
	"github.com/quizsecure/quizsecure/pkg/behavior"
	"github.com/quizsecure/quizsecure/pkg/detect"
	"github.com/quizsecure/quizsecure/pkg/gaze"
	"github.com/quizsecure/quizsecure/pkg/protocol"
	"github.com/quizsecure/quizsecure/pkg/session"
)

// liveStudentID keys the monitor's own session in the session manager.
const liveStudentID = "live"

// FrameSource supplies JPEG camera frames.
type FrameSource interface {
	ReadJPEG() ([]byte, error)
}

// Publisher delivers monitoring output to connected viewers.
type Publisher interface {
	// PublishUpdate fans a protocol message out to status viewers.
	PublishUpdate(msg *protocol.Message)

	// PublishFrame fans a raw JPEG frame out to camera viewers.
	PublishFrame(jpeg []byte)
}

// Archiver persists audit data. Optional; both methods may be slow (they
// hit the database) so the monitor calls them off the hot path.
type Archiver interface {
	SaveSession(ctx context.Context, st session.Status) error
	SaveEvent(ctx context.Context, sessionID string, e behavior.Event) error
}

// Config holds monitor loop settings.
type Config struct {
	// FrameInterval is the sampling cadence. Thresholds are wall-clock so
	// correctness does not depend on hitting this exactly.
	FrameInterval time.Duration

	// ArchiveInterval is how often the session summary row is refreshed.
	ArchiveInterval time.Duration
}

// DefaultConfig returns the standard 30 Hz pipeline settings.
func DefaultConfig() Config {
	return Config{
		FrameInterval:   33 * time.Millisecond,
		ArchiveInterval: 5 * time.Second,
	}
}

// Monitor drives one live proctoring session.
type Monitor struct {
	cfg      Config
	source   gaze.Source
	camera   FrameSource     // nil when running camera-less
	detector detect.Detector // nil when no face model is available
	pub      Publisher
	archiver Archiver // nil when archiving is disabled

	sessions *session.Manager
	sess     *session.Session

	// mu guards the watermarks below. Reset runs on web handler
	// goroutines while the Run loop reads and advances them.
	mu sync.Mutex
	// lastEventTs tracks which tracker events have been archived.
	lastEventTs float64
	// lastAlerts detects alert count increases for alert broadcasts.
	lastAlerts int
}

// New wires a monitor. camera, detector, and archiver may be nil.
func New(cfg Config, sessions *session.Manager, source gaze.Source, camera FrameSource, detector detect.Detector, pub Publisher, archiver Archiver) *Monitor {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultConfig().FrameInterval
	}
	if cfg.ArchiveInterval <= 0 {
		cfg.ArchiveInterval = DefaultConfig().ArchiveInterval
	}
	return &Monitor{
		cfg:      cfg,
		source:   source,
		camera:   camera,
		detector: detector,
		pub:      pub,
		archiver: archiver,
		sessions: sessions,
		sess:     sessions.GetOrCreate(liveStudentID),
	}
}

// ProcessFrame runs one uploaded student frame through the same pipeline
// the live loop uses: face detection, gaze estimation, tracker update.
// Serves remote students who push frames over HTTP instead of sharing the
// server's camera.
func (m *Monitor) ProcessFrame(ctx context.Context, studentID string, jpeg []byte) (session.Status, error) {
	sample, err := m.source.Estimate(ctx, jpeg)
	if err != nil {
		return session.Status{}, err
	}

	faces := sample.Faces
	if m.detector != nil {
		if detections, err := m.detector.Detect(jpeg); err == nil {
			faces = len(detections)
		}
	}

	sess := m.sessions.GetOrCreate(studentID)
	return sess.RecordFrame(sample.Pitch, sample.Yaw, detect.SuspiciousBehaviors(faces)), nil
}

// Session returns the live session the monitor drives.
func (m *Monitor) Session() *session.Session {
	return m.sess
}

// Reset restarts the live session and tells the viewers.
func (m *Monitor) Reset() {
	m.sess.Reset()

	m.mu.Lock()
	m.lastEventTs = 0
	m.lastAlerts = 0
	m.mu.Unlock()

	msg, err := protocol.NewSessionReset(m.sess.ID())
	if err == nil {
		m.pub.PublishUpdate(msg)
	}
	log.Info("live session reset", "session", m.sess.ID())
}

// Run processes frames until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	frameTicker := time.NewTicker(m.cfg.FrameInterval)
	archiveTicker := time.NewTicker(m.cfg.ArchiveInterval)
	defer frameTicker.Stop()
	defer archiveTicker.Stop()

	log.Info("monitor started",
		"source", m.source.Name(),
		"camera", m.camera != nil,
		"detector", m.detector != nil,
		"interval", m.cfg.FrameInterval)

	for {
		select {
		case <-ctx.Done():
			log.Info("monitor stopped")
			return

		case <-frameTicker.C:
			m.tick(ctx)

		case <-archiveTicker.C:
			if m.archiver != nil {
				if err := m.archiver.SaveSession(ctx, m.sess.Status()); err != nil {
					log.Warn("archive session failed", "err", err)
				}
			}
		}
	}
}

// tick processes a single frame through the pipeline.
func (m *Monitor) tick(ctx context.Context) {
	var frame []byte
	if m.camera != nil {
		f, err := m.camera.ReadJPEG()
		if err != nil {
			log.Warn("frame capture failed", "err", err)
			return
		}
		frame = f
	}

	sample, err := m.source.Estimate(ctx, frame)
	if err != nil {
		// No valid sample: the tracker is simply not invoked this tick.
		log.Debug("gaze estimate unavailable", "err", err)
		return
	}

	faces := sample.Faces
	var detections []detect.Detection
	if m.detector != nil && frame != nil {
		detections, err = m.detector.Detect(frame)
		if err != nil {
			log.Debug("face detection failed", "err", err)
		} else {
			faces = len(detections)
		}
	}

	st := m.sess.RecordFrame(sample.Pitch, sample.Yaw, detect.SuspiciousBehaviors(faces))

	m.announceAlerts(st)
	m.archiveNewEvents(ctx, st)

	if frame != nil {
		annotated, err := Annotate(frame, st, detections)
		if err != nil {
			log.Debug("overlay failed", "err", err)
		} else {
			frame = annotated
		}
		m.pub.PublishFrame(frame)
	}

	msg, err := protocol.NewGazeUpdate(st.Behavior, frame, faces, m.source.Name())
	if err != nil {
		log.Error("encode gaze update failed", "err", err)
		return
	}
	m.pub.PublishUpdate(msg)
}

func (m *Monitor) announceAlerts(st session.Status) {
	m.mu.Lock()
	if st.Behavior.AlertCount <= m.lastAlerts {
		m.mu.Unlock()
		return
	}
	m.lastAlerts = st.Behavior.AlertCount
	m.mu.Unlock()

	msg, err := protocol.NewAlert(st.SessionID, st.Behavior.AlertCount, st.Behavior.TotalDistracted)
	if err == nil {
		m.pub.PublishUpdate(msg)
	}
	log.Warn("critical alert",
		"session", st.SessionID,
		"alerts", st.Behavior.AlertCount,
		"focus", st.Behavior.FocusPercentage)
}

func (m *Monitor) archiveNewEvents(ctx context.Context, st session.Status) {
	if m.archiver == nil {
		return
	}
	for _, e := range st.Behavior.RecentEvents {
		m.mu.Lock()
		stale := e.Timestamp <= m.lastEventTs
		if !stale {
			m.lastEventTs = e.Timestamp
		}
		m.mu.Unlock()
		if stale {
			continue
		}
		if err := m.archiver.SaveEvent(ctx, st.SessionID, e); err != nil {
			log.Warn("archive event failed", "err", err)
		}
	}
}
