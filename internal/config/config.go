// Package config defines the game's configuration and how it is loaded.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// CameraID selects the capture device.
	CameraID int `koanf:"camera_id"`

	// FrameWidth and FrameHeight request a capture resolution.
	FrameWidth  int `koanf:"frame_width"`
	FrameHeight int `koanf:"frame_height"`

	// FPS requests a capture frame rate.
	FPS int `koanf:"fps"`

	// Mirror flips frames horizontally before detection and display.
	Mirror bool `koanf:"mirror"`

	// MaxHands, MinConfidence and MinTrackingConfidence configure the detector.
	MaxHands              int     `koanf:"max_hands"`
	MinConfidence         float64 `koanf:"min_confidence"`
	MinTrackingConfidence float64 `koanf:"min_tracking_confidence"`

	// HoldMS is how long a gesture must be held before it is classified.
	HoldMS int `koanf:"hold_ms"`

	// KeyDelayMS is how long each frame waits for a key press.
	KeyDelayMS int `koanf:"key_delay_ms"`

	// WindowTitle names the display window.
	WindowTitle string `koanf:"window_title"`

	// DBPath is the round history database. Empty disables history.
	DBPath string `koanf:"db_path"`

	// Addr is the HTTP listen address. Empty disables the server.
	Addr string `koanf:"addr"`

	// Tray shows a system tray menu.
	Tray bool `koanf:"tray"`

	// MediaPipeScript and Python locate the landmark service.
	MediaPipeScript string `koanf:"mediapipe_script"`
	Python          string `koanf:"python"`

	// Seed makes the computer's moves reproducible. Zero means random.
	Seed uint64 `koanf:"seed"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		CameraID:              0,
		FrameWidth:            640,
		FrameHeight:           480,
		FPS:                   30,
		Mirror:                true,
		MaxHands:              1,
		MinConfidence:         0.7,
		MinTrackingConfidence: 0.5,
		HoldMS:                1000,
		KeyDelayMS:            5,
		WindowTitle:           "Rock, Paper, Scissors",
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.HoldMS <= 0:
		return invalid("hold_ms must be positive")
	case c.KeyDelayMS < 1:
		return invalid("key_delay_ms must be at least 1")
	case c.MinConfidence < 0 || c.MinConfidence > 1:
		return invalid("min_confidence must be within [0,1]")
	case c.MinTrackingConfidence < 0 || c.MinTrackingConfidence > 1:
		return invalid("min_tracking_confidence must be within [0,1]")
	case c.MaxHands < 1:
		return invalid("max_hands must be at least 1")
	case c.FrameWidth <= 0 || c.FrameHeight <= 0:
		return invalid("frame_width and frame_height must be positive")
	case c.FPS <= 0:
		return invalid("fps must be positive")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log_level must be one of debug, info, warn, error")
	}

	return nil
}
