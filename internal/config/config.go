package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Environment overrides.
const (
	EnvConfig  = "CAMREEL_CONFIG"
	EnvFFmpeg  = "CAMREEL_FFMPEG"
	EnvFFprobe = "CAMREEL_FFPROBE"
)

// Ripple scopes for ripple delete.
const (
	RippleAllTracks = "all"
	RippleTrack     = "track"
)

// Config holds all application configuration
type Config struct {
	Editor   EditorConfig   `yaml:"editor"`
	Export   ExportConfig   `yaml:"export"`
	FFmpeg   FFmpegConfig   `yaml:"ffmpeg"`
	Playback PlaybackConfig `yaml:"playback"`
	AutoZoom AutoZoomConfig `yaml:"autozoom"`
}

type EditorConfig struct {
	SnapThreshold   float64 `yaml:"snap_threshold"`   // ms
	HistoryCapacity int     `yaml:"history_capacity"` // snapshots
	PasteStagger    float64 `yaml:"paste_stagger"`    // ms between pasted clips
	DuplicateGap    float64 `yaml:"duplicate_gap"`    // ms after the source clip
	Ripple          bool    `yaml:"ripple"`
	RippleScope     string  `yaml:"ripple_scope"` // all | track
}

type ExportConfig struct {
	Format   string `yaml:"format"` // mp4 | webm
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	FPS      int    `yaml:"fps"`
	Codec    string `yaml:"codec"` // empty selects the best available H.264 encoder
	Bitrate  string `yaml:"bitrate,omitempty"`
	CRF      int    `yaml:"crf"`
	Workers  int    `yaml:"workers"` // 0 = physical cores
	Hardware bool   `yaml:"hardware"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ProbePath  string `yaml:"probe_path"`
}

type PlaybackConfig struct {
	Tick float64 `yaml:"tick"` // ms
}

// AutoZoomConfig tunes zoom planning from recorded clicks.
type AutoZoomConfig struct {
	Detector    string  `yaml:"detector"` // contrast | none
	DefaultZoom float64 `yaml:"default_zoom"`
	MaxZoom     float64 `yaml:"max_zoom"`
	Hold        float64 `yaml:"hold"`      // ms
	MergeGap    float64 `yaml:"merge_gap"` // ms
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Editor.SnapThreshold < 0 {
		errs = append(errs, fmt.Errorf("editor.snap_threshold must be >= 0, got %v", c.Editor.SnapThreshold))
	}
	if c.Editor.RippleScope != RippleAllTracks && c.Editor.RippleScope != RippleTrack {
		errs = append(errs, fmt.Errorf("editor.ripple_scope must be %q or %q, got %q", RippleAllTracks, RippleTrack, c.Editor.RippleScope))
	}
	if c.Export.Format != "mp4" && c.Export.Format != "webm" {
		errs = append(errs, fmt.Errorf("export.format must be mp4 or webm, got %q", c.Export.Format))
	}
	if c.Export.Width <= 0 || c.Export.Height <= 0 {
		errs = append(errs, fmt.Errorf("export size must be positive, got %dx%d", c.Export.Width, c.Export.Height))
	}
	if c.Export.FPS <= 0 {
		errs = append(errs, fmt.Errorf("export.fps must be positive, got %d", c.Export.FPS))
	}
	if c.Export.CRF < 0 || c.Export.CRF > 51 {
		errs = append(errs, fmt.Errorf("export.crf must be within [0, 51], got %d", c.Export.CRF))
	}
	if c.Playback.Tick <= 0 {
		errs = append(errs, fmt.Errorf("playback.tick must be positive, got %v", c.Playback.Tick))
	}
	if c.AutoZoom.DefaultZoom < 1 || c.AutoZoom.MaxZoom < c.AutoZoom.DefaultZoom {
		errs = append(errs, fmt.Errorf("autozoom needs 1 <= default_zoom <= max_zoom, got %v and %v", c.AutoZoom.DefaultZoom, c.AutoZoom.MaxZoom))
	}
	return errors.Join(errs...)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvFFmpeg); v != "" {
		c.FFmpeg.BinaryPath = v
	}
	if v := os.Getenv(EnvFFprobe); v != "" {
		c.FFmpeg.ProbePath = v
	}
}

func defaultConfig() *Config {
	return &Config{
		Editor: EditorConfig{
			SnapThreshold:   100,
			HistoryCapacity: 50,
			PasteStagger:    100,
			DuplicateGap:    100,
			Ripple:          true,
			RippleScope:     RippleAllTracks,
		},
		Export: ExportConfig{
			Format: "mp4",
			Width:  1920,
			Height: 1080,
			FPS:    30,
			CRF:    23,
		},
		FFmpeg: FFmpegConfig{
			BinaryPath: "ffmpeg",
			ProbePath:  "ffprobe",
		},
		Playback: PlaybackConfig{
			Tick: 1000.0 / 60,
		},
		AutoZoom: AutoZoomConfig{
			Detector:    "contrast",
			DefaultZoom: 2,
			MaxZoom:     3,
			Hold:        1500,
			MergeGap:    2500,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./camreel.yaml",
		"./camreel.yml",
		filepath.Join(os.Getenv("HOME"), ".camreel", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
