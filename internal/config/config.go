// Package config loads quizsecure configuration from an optional YAML file
// with environment variable overrides. A .env file is honored if present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/quizsecure/quizsecure/internal/log"
	"github.com/quizsecure/quizsecure/pkg/behavior"
)

// Config is the full server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Camera    CameraConfig    `yaml:"camera"`
	Estimator EstimatorConfig `yaml:"estimator"`
	Behavior  BehaviorConfig  `yaml:"behavior"`
	Database  DatabaseConfig  `yaml:"database"`
	LogLevel  string          `yaml:"log_level"`
}

// ServerConfig configures the HTTP/WebSocket listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the listen address for fiber.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CameraConfig configures webcam capture.
type CameraConfig struct {
	DeviceID  int  `yaml:"device_id"`
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	Framerate int  `yaml:"framerate"`
	Quality   int  `yaml:"quality"`
	Enabled   bool `yaml:"enabled"`
}

// EstimatorConfig configures the external gaze-estimation service.
type EstimatorConfig struct {
	// URL is the WebSocket endpoint of the gaze model server,
	// e.g. ws://localhost:9000/estimate. Empty means run the simulator.
	URL string `yaml:"url"`

	// DialTimeout bounds the initial connection attempt.
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// BehaviorConfig holds the tracker thresholds in seconds and the screen
// bounds in radians. Converted to behavior.Config via Tracker().
type BehaviorConfig struct {
	ScreenBounds         behavior.Bounds `yaml:"screen_bounds"`
	DistractionThreshold float64         `yaml:"distraction_threshold"`
	CriticalThreshold    float64         `yaml:"critical_threshold"`
	AlertDebounce        float64         `yaml:"alert_debounce"`
}

// Tracker converts the YAML-friendly form into a behavior.Config.
func (b BehaviorConfig) Tracker() behavior.Config {
	cfg := behavior.DefaultConfig()
	if b.ScreenBounds != (behavior.Bounds{}) {
		cfg.ScreenBounds = b.ScreenBounds
	}
	if b.DistractionThreshold > 0 {
		cfg.DistractionThreshold = secondsToDuration(b.DistractionThreshold)
	}
	if b.CriticalThreshold > 0 {
		cfg.CriticalThreshold = secondsToDuration(b.CriticalThreshold)
	}
	if b.AlertDebounce > 0 {
		cfg.AlertDebounce = secondsToDuration(b.AlertDebounce)
	}
	return cfg
}

// DatabaseConfig configures the optional exam audit archive.
type DatabaseConfig struct {
	// URL is a Postgres connection string. Empty disables archiving.
	URL string `yaml:"url"`
}

// Load reads the config file at path (if it exists) and applies environment
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	// .env is best-effort: absence is the normal case in production.
	if err := godotenv.Load(); err == nil {
		log.Debug("loaded .env file")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Camera: CameraConfig{
			DeviceID:  0,
			Width:     640,
			Height:    480,
			Framerate: 30,
			Quality:   85,
			Enabled:   true,
		},
		Estimator: EstimatorConfig{
			DialTimeout: 10 * time.Second,
		},
		LogLevel: "info",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("QS_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("QS_PORT", cfg.Server.Port)
	cfg.Camera.DeviceID = getEnvInt("QS_CAMERA_ID", cfg.Camera.DeviceID)
	cfg.Camera.Enabled = getEnvBool("QS_CAMERA_ENABLED", cfg.Camera.Enabled)
	cfg.Estimator.URL = getEnv("QS_ESTIMATOR_URL", cfg.Estimator.URL)
	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)
	cfg.LogLevel = getEnv("QS_LOG_LEVEL", cfg.LogLevel)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
