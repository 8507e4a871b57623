package detect

import "testing"

func TestSuspiciousBehaviors(t *testing.T) {
	tests := []struct {
		name  string
		faces int
		want  []string
	}{
		{"no face", 0, []string{BehaviorNoFace}},
		{"one face", 1, nil},
		{"two faces", 2, []string{BehaviorMultipleFaces}},
		{"crowd", 5, []string{BehaviorMultipleFaces}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuspiciousBehaviors(tt.faces)
			if len(got) != len(tt.want) {
				t.Fatalf("SuspiciousBehaviors(%d) = %v, want %v", tt.faces, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("flag[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDetection_CenterAndArea(t *testing.T) {
	d := Detection{X: 0.2, Y: 0.4, W: 0.2, H: 0.1}
	cx, cy := d.Center()
	if cx != 0.3 || cy != 0.45 {
		t.Errorf("Center() = (%v, %v), want (0.3, 0.45)", cx, cy)
	}
	if a := d.Area(); a != 0.2*0.1 {
		t.Errorf("Area() = %v, want 0.02", a)
	}
}

func TestNewYuNet_InvalidPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPath = "/nonexistent/model.onnx"
	if _, err := NewYuNet(cfg); err == nil {
		t.Error("expected error for missing model file")
	}
}
