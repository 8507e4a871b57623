package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/quizsecure/quizsecure/internal/log"
)

// Webcam reads frames from a local camera device and encodes them as JPEG.
// One reader at a time; the monitor loop owns it.
type Webcam struct {
	cfg Config

	mu  sync.Mutex
	cap *gocv.VideoCapture
	img gocv.Mat
}

// Open opens the camera device described by cfg.
func Open(cfg Config) (*Webcam, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("capture config: %w", err)
	}

	cap, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", cfg.DeviceID, err)
	}

	cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	cap.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))

	log.Info("camera opened",
		"device", cfg.DeviceID,
		"width", cfg.Width,
		"height", cfg.Height,
		"fps", cfg.Framerate)

	return &Webcam{
		cfg: cfg,
		cap: cap,
		img: gocv.NewMat(),
	}, nil
}

// Config returns the capture configuration in use.
func (w *Webcam) Config() Config {
	return w.cfg
}

// ReadJPEG grabs the next frame and returns it JPEG-encoded.
func (w *Webcam) ReadJPEG() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cap == nil {
		return nil, fmt.Errorf("camera closed")
	}
	if ok := w.cap.Read(&w.img); !ok {
		return nil, fmt.Errorf("camera read failed")
	}
	if w.img.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, w.img,
		[]int{gocv.IMWriteJpegQuality, w.cfg.Quality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// Copy out: the native buffer is reused on the next encode.
	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

// Close releases the camera device.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cap == nil {
		return nil
	}
	w.img.Close()
	err := w.cap.Close()
	w.cap = nil
	return err
}
