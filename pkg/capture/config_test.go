package capture

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"negative device", func(c *Config) { c.DeviceID = -1 }, true},
		{"tiny width", func(c *Config) { c.Width = 10 }, true},
		{"huge height", func(c *Config) { c.Height = 9999 }, true},
		{"zero framerate", func(c *Config) { c.Framerate = 0 }, true},
		{"quality over 100", func(c *Config) { c.Quality = 101 }, true},
		{"720p", func(c *Config) { c.Width = 1280; c.Height = 720 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
