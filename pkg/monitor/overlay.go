package monitor

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/quizsecure/quizsecure/pkg/behavior"
	"github.com/quizsecure/quizsecure/pkg/detect"
	"github.com/quizsecure/quizsecure/pkg/session"
)

// Annotate draws the proctoring overlay onto a JPEG frame: detected face
// boxes plus a status panel colored by the current attention state.
func Annotate(jpeg []byte, st session.Status, faces []detect.Detection) ([]byte, error) {
	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	defer img.Close()
	if img.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	w := img.Cols()
	h := img.Rows()

	// Face boxes.
	for _, f := range faces {
		rect := image.Rect(
			int(f.X*float64(w)),
			int(f.Y*float64(h)),
			int((f.X+f.W)*float64(w)),
			int((f.Y+f.H)*float64(h)),
		)
		gocv.Rectangle(&img, rect, color.RGBA{0, 255, 0, 0}, 2)
	}

	// Status panel background.
	gocv.Rectangle(&img, image.Rect(10, 10, 420, 115), color.RGBA{0, 0, 0, 0}, -1)

	statusColor := toRGBA(behavior.StatusColor(st.Behavior.State))
	white := color.RGBA{255, 255, 255, 0}

	gocv.PutText(&img,
		fmt.Sprintf("QuizSecure: %s", st.Behavior.State),
		image.Pt(20, 35), gocv.FontHersheySimplex, 0.7, statusColor, 2)
	gocv.PutText(&img,
		fmt.Sprintf("Alerts: %d  Warnings: %d", st.Behavior.AlertCount, st.Warnings),
		image.Pt(20, 60), gocv.FontHersheySimplex, 0.6, white, 2)
	gocv.PutText(&img,
		fmt.Sprintf("Focus: %.1f%%", st.Behavior.FocusPercentage),
		image.Pt(20, 85), gocv.FontHersheySimplex, 0.6, white, 2)
	gocv.PutText(&img,
		fmt.Sprintf("Gaze: P=%.3f Y=%.3f", st.Behavior.CurrentGaze.Pitch, st.Behavior.CurrentGaze.Yaw),
		image.Pt(20, 108), gocv.FontHersheySimplex, 0.5, color.RGBA{0, 255, 255, 0}, 1)

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

func toRGBA(c behavior.Color) color.RGBA {
	return color.RGBA{c.R, c.G, c.B, 0}
}
