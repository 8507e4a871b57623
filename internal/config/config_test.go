package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "0.0.0.0:8000" {
		t.Errorf("addr = %q, want 0.0.0.0:8000", cfg.Server.Addr())
	}
	if !cfg.Camera.Enabled {
		t.Error("camera should be enabled by default")
	}
	if cfg.Database.URL != "" && os.Getenv("DATABASE_URL") == "" {
		t.Error("database should be disabled by default")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9090
behavior:
  distraction_threshold: 1.5
  critical_threshold: 3.0
  screen_bounds:
    yaw_min: -0.5
    yaw_max: 0.5
    pitch_min: -0.35
    pitch_max: 0.35
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}

	tc := cfg.Behavior.Tracker()
	if tc.DistractionThreshold != 1500*time.Millisecond {
		t.Errorf("distraction threshold = %v, want 1.5s", tc.DistractionThreshold)
	}
	if tc.CriticalThreshold != 3*time.Second {
		t.Errorf("critical threshold = %v, want 3s", tc.CriticalThreshold)
	}
	if tc.ScreenBounds.YawMax != 0.5 {
		t.Errorf("yaw_max = %v, want 0.5", tc.ScreenBounds.YawMax)
	}
	// Debounce was not set in the file; the tracker default applies.
	if tc.AlertDebounce != 2*time.Second {
		t.Errorf("alert debounce = %v, want default 2s", tc.AlertDebounce)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("QS_PORT", "7777")
	t.Setenv("QS_CAMERA_ENABLED", "false")
	t.Setenv("QS_ESTIMATOR_URL", "ws://model:9000/estimate")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("port = %d, want 7777", cfg.Server.Port)
	}
	if cfg.Camera.Enabled {
		t.Error("camera should be disabled via env")
	}
	if cfg.Estimator.URL != "ws://model:9000/estimate" {
		t.Errorf("estimator url = %q", cfg.Estimator.URL)
	}
}
