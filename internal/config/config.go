package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

type Backend string

const (
	BackendGocv   Backend = "gocv"
	BackendFFmpeg Backend = "ffmpeg"

	DefaultConfigPath  string = "config.json"
	DefaultROIPath     string = "roi_definitions.txt"
	DefaultTickMillis  uint   = 30
	DefaultDeviceIndex int    = 0
)

var BackendsList = [...]string{
	string(BackendGocv),
	string(BackendFFmpeg),
}

type CameraConfig struct {
	Backend     Backend `json:"backend"`
	DeviceIndex int     `json:"device_index"`

	// Width and Height only apply to the ffmpeg backend, which needs a fixed
	// raw frame size up front.
	Width  int `json:"width"`
	Height int `json:"height"`
}

type WindowConfig struct {
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

type Config struct {
	mu sync.RWMutex

	Camera     CameraConfig `json:"camera"`
	Window     WindowConfig `json:"window"`
	ROIPath    string       `json:"roi_path"`
	TickMillis uint         `json:"tick_ms"`
	LogLevel   string       `json:"log_level"`
}

func (c *Config) GetTickInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.TickMillis == 0 {
		return time.Duration(DefaultTickMillis) * time.Millisecond
	}
	return time.Duration(c.TickMillis) * time.Millisecond
}

func (c *Config) SetTickInterval(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.TickMillis = uint(d.Milliseconds())
}

func (c *Config) GetCamera() CameraConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Camera
}

func (c *Config) GetWindow() WindowConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Window
}

func (c *Config) GetROIPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.ROIPath == "" {
		return DefaultROIPath
	}
	return c.ROIPath
}

// SlogLevel maps the textual log level onto slog; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !slices.Contains(BackendsList[:], string(c.Camera.Backend)) {
		return fmt.Errorf("unknown camera backend: %q, want one of %v", c.Camera.Backend, BackendsList)
	}

	if c.Camera.DeviceIndex < 0 {
		return fmt.Errorf("negative device index: %d", c.Camera.DeviceIndex)
	}

	if c.Camera.Backend == BackendFFmpeg && (c.Camera.Width <= 0 || c.Camera.Height <= 0) {
		return fmt.Errorf("ffmpeg backend needs a frame size, got %dx%d", c.Camera.Width, c.Camera.Height)
	}

	return nil
}

// LoadConfigFile never fails: a missing or unreadable file yields the
// defaults, and the returned error only reports why the file was ignored.
func LoadConfigFile(path string) (*Config, error) {
	var cfg *Config = NewDefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("open config: %w", err)
	}

	defer f.Close()

	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return NewDefaultConfig(), fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return NewDefaultConfig(), fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

func NewDefaultConfig() *Config {
	return &Config{
		Camera: CameraConfig{
			Backend:     BackendGocv,
			DeviceIndex: DefaultDeviceIndex,
			Width:       640,
			Height:      480,
		},
		Window:     WindowConfig{Width: 1200, Height: 900},
		ROIPath:    DefaultROIPath,
		TickMillis: DefaultTickMillis,
		LogLevel:   "info",
	}
}
