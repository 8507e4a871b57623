package monitor

import (
	"context"
	"sync"
	"testing"

	"github.com/quizsecure/quizsecure/pkg/behavior"
	"github.com/quizsecure/quizsecure/pkg/gaze"
	"github.com/quizsecure/quizsecure/pkg/protocol"
	"github.com/quizsecure/quizsecure/pkg/session"
)

// scriptedSource replays a fixed list of samples.
type scriptedSource struct {
	mu      sync.Mutex
	samples []gaze.Sample
	i       int
}

func (s *scriptedSource) Estimate(context.Context, []byte) (gaze.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sample := s.samples[s.i%len(s.samples)]
	s.i++
	return sample, nil
}

func (s *scriptedSource) Name() string { return "scripted" }
func (s *scriptedSource) Close() error { return nil }

// capturePublisher records everything published.
type capturePublisher struct {
	mu      sync.Mutex
	updates []*protocol.Message
	frames  [][]byte
}

func (p *capturePublisher) PublishUpdate(msg *protocol.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, msg)
}

func (p *capturePublisher) PublishFrame(jpeg []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = append(p.frames, jpeg)
}

func (p *capturePublisher) lastUpdate(t *testing.T, msgType protocol.MessageType) *protocol.Message {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.updates) - 1; i >= 0; i-- {
		if p.updates[i].Type == msgType {
			return p.updates[i]
		}
	}
	return nil
}

func newTestMonitor(src gaze.Source, pub Publisher) (*Monitor, *session.Manager) {
	sessions := session.NewManager(behavior.DefaultConfig())
	m := New(DefaultConfig(), sessions, src, nil, nil, pub, nil)
	return m, sessions
}

func TestTick_PublishesGazeUpdate(t *testing.T) {
	src := &scriptedSource{samples: []gaze.Sample{
		{Pitch: 0, Yaw: 0, FaceDetected: true, Faces: 1},
	}}
	pub := &capturePublisher{}
	m, _ := newTestMonitor(src, pub)

	m.tick(context.Background())

	msg := pub.lastUpdate(t, protocol.TypeGazeUpdate)
	if msg == nil {
		t.Fatal("expected a gaze_update message")
	}

	var data protocol.GazeUpdateData
	if err := msg.ParseData(&data); err != nil {
		t.Fatalf("ParseData() error = %v", err)
	}
	if data.Status != "FOCUSED" {
		t.Errorf("status = %q, want FOCUSED", data.Status)
	}
	if !data.LookingAtScreen {
		t.Error("expected looking_at_screen true for centered gaze")
	}
	if data.System != "scripted" {
		t.Errorf("system = %q, want scripted", data.System)
	}
	if data.FacesDetected != 1 {
		t.Errorf("faces_detected = %d, want 1", data.FacesDetected)
	}
	// No camera: no frame payload and no camera broadcasts.
	if data.Frame != "" {
		t.Error("expected no frame in camera-less mode")
	}
	if len(pub.frames) != 0 {
		t.Error("expected no frame broadcasts in camera-less mode")
	}
}

func TestTick_DistractionFlowsToStatus(t *testing.T) {
	src := &scriptedSource{samples: []gaze.Sample{
		{Pitch: 0, Yaw: 0.9, FaceDetected: true, Faces: 1},
	}}
	pub := &capturePublisher{}
	m, _ := newTestMonitor(src, pub)

	m.tick(context.Background())

	msg := pub.lastUpdate(t, protocol.TypeGazeUpdate)
	var data protocol.GazeUpdateData
	if err := msg.ParseData(&data); err != nil {
		t.Fatal(err)
	}
	if data.Status != "DISTRACTED" {
		t.Errorf("status = %q, want DISTRACTED", data.Status)
	}
	if data.LookingAtScreen {
		t.Error("expected looking_at_screen false")
	}
}

func TestReset_BroadcastsAndClearsSession(t *testing.T) {
	src := &scriptedSource{samples: []gaze.Sample{
		{Pitch: 0, Yaw: 0.9, FaceDetected: true, Faces: 1},
	}}
	pub := &capturePublisher{}
	m, _ := newTestMonitor(src, pub)

	m.tick(context.Background())
	m.Reset()

	if msg := pub.lastUpdate(t, protocol.TypeSessionReset); msg == nil {
		t.Fatal("expected a session_reset broadcast")
	}
	if m.Session().Status().Behavior.State != behavior.StateInitializing {
		t.Error("session tracker should be back to INITIALIZING")
	}
	if m.Session().Status().TotalFrames != 0 {
		t.Error("frame counter should be zeroed")
	}
}

func TestTick_NoFaceRaisesWarnings(t *testing.T) {
	src := &scriptedSource{samples: []gaze.Sample{
		{Pitch: 0, Yaw: 0, FaceDetected: false, Faces: 0},
	}}
	pub := &capturePublisher{}
	m, _ := newTestMonitor(src, pub)

	for i := 0; i < 3; i++ {
		m.tick(context.Background())
	}

	st := m.Session().Status()
	if st.Warnings != 3 {
		t.Errorf("warnings = %d, want 3 after 3 faceless frames", st.Warnings)
	}
	if st.AlertLevel != session.LevelCritical {
		t.Errorf("alert_level = %v, want critical", st.AlertLevel)
	}
}

func TestReset_ConcurrentWithTicks(t *testing.T) {
	src := &scriptedSource{samples: []gaze.Sample{
		{Pitch: 0, Yaw: 0.9, FaceDetected: true, Faces: 1},
	}}
	pub := &capturePublisher{}
	m, _ := newTestMonitor(src, pub)

	// Reset arrives on web handler goroutines while the run loop ticks.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			m.tick(context.Background())
		}
	}()
	for i := 0; i < 20; i++ {
		m.Reset()
	}
	<-done
	m.Reset()

	st := m.Session().Status()
	if st.TotalFrames != 0 {
		t.Errorf("total_frames = %d, want 0 after final reset", st.TotalFrames)
	}
	if st.Behavior.AlertCount != 0 {
		t.Errorf("alert_count = %d, want 0 after final reset", st.Behavior.AlertCount)
	}
}
