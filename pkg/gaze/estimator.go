package gaze

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quizsecure/quizsecure/internal/log"
)

const (
	// estimateTimeout bounds one frame round-trip to the model server.
	estimateTimeout = 2 * time.Second

	// reconnectBackoff is the pause before redialing a dropped connection.
	reconnectBackoff = time.Second
)

// Estimator streams JPEG frames to the external gaze-estimation service
// over WebSocket and reads back one gaze sample per frame.
//
// The model server holds the pretrained network; this client is pure
// transport. A dropped connection is redialed lazily on the next Estimate.
type Estimator struct {
	url    string
	dialer websocket.Dialer

	mu       sync.Mutex
	conn     *websocket.Conn
	lastDial time.Time
	closed   bool
}

// estimateResponse is the model server's per-frame reply.
type estimateResponse struct {
	Pitch        float64 `json:"pitch"`
	Yaw          float64 `json:"yaw"`
	FaceDetected bool    `json:"face_detected"`
	Faces        int     `json:"faces"`
	Error        string  `json:"error,omitempty"`
}

// NewEstimator creates a client for the gaze model server at url
// (e.g. ws://localhost:9000/estimate). The connection is established on
// first use.
func NewEstimator(url string, dialTimeout time.Duration) *Estimator {
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}
	return &Estimator{
		url: url,
		dialer: websocket.Dialer{
			HandshakeTimeout: dialTimeout,
		},
	}
}

// Name implements Source.
func (e *Estimator) Name() string { return "estimator" }

// Estimate sends one JPEG frame and waits for the model's gaze sample.
func (e *Estimator) Estimate(ctx context.Context, jpegFrame []byte) (Sample, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return Sample{}, fmt.Errorf("estimator closed")
	}

	if e.conn == nil {
		if err := e.dialLocked(ctx); err != nil {
			return Sample{}, err
		}
	}

	deadline := time.Now().Add(estimateTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	e.conn.SetWriteDeadline(deadline)
	if err := e.conn.WriteMessage(websocket.BinaryMessage, jpegFrame); err != nil {
		e.dropLocked()
		return Sample{}, fmt.Errorf("send frame: %w", err)
	}

	e.conn.SetReadDeadline(deadline)
	_, data, err := e.conn.ReadMessage()
	if err != nil {
		e.dropLocked()
		return Sample{}, fmt.Errorf("read estimate: %w", err)
	}

	var resp estimateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return Sample{}, fmt.Errorf("decode estimate: %w", err)
	}
	if resp.Error != "" {
		return Sample{}, fmt.Errorf("model server: %s", resp.Error)
	}

	return Sample{
		Pitch:        resp.Pitch,
		Yaw:          resp.Yaw,
		FaceDetected: resp.FaceDetected,
		Faces:        resp.Faces,
		Timestamp:    time.Now(),
	}, nil
}

// Close shuts the connection down. Estimate fails afterwards.
func (e *Estimator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.conn != nil {
		err := e.conn.Close()
		e.conn = nil
		return err
	}
	return nil
}

func (e *Estimator) dialLocked(ctx context.Context) error {
	// Back off between redials so a down model server does not get hammered
	// at frame rate.
	if since := time.Since(e.lastDial); since < reconnectBackoff {
		return fmt.Errorf("estimator reconnect pending")
	}
	e.lastDial = time.Now()

	conn, _, err := e.dialer.DialContext(ctx, e.url, nil)
	if err != nil {
		return fmt.Errorf("dial model server: %w", err)
	}
	e.conn = conn
	log.Info("connected to gaze model server", "url", e.url)
	return nil
}

func (e *Estimator) dropLocked() {
	if e.conn != nil {
		e.conn.Close()
		e.conn = nil
	}
}
