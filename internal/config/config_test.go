package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv(EnvConfig, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Editor.SnapThreshold != 100 || cfg.Editor.HistoryCapacity != 50 {
		t.Errorf("unexpected editor defaults: %+v", cfg.Editor)
	}
	if !cfg.Editor.Ripple || cfg.Editor.RippleScope != RippleAllTracks {
		t.Errorf("ripple should default to all tracks: %+v", cfg.Editor)
	}
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camreel.yaml")
	doc := "export:\n  fps: 60\n  format: webm\neditor:\n  ripple_scope: track\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Export.FPS != 60 || cfg.Export.Format != "webm" {
		t.Errorf("file values not applied: %+v", cfg.Export)
	}
	if cfg.Export.Width != 1920 {
		t.Errorf("unset values should keep defaults, got width %d", cfg.Export.Width)
	}
	if cfg.Editor.RippleScope != RippleTrack {
		t.Errorf("expected track scope, got %q", cfg.Editor.RippleScope)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvFFmpeg, "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv(EnvFFprobe, "/opt/ffmpeg/bin/ffprobe")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FFmpeg.BinaryPath != "/opt/ffmpeg/bin/ffmpeg" || cfg.FFmpeg.ProbePath != "/opt/ffmpeg/bin/ffprobe" {
		t.Errorf("env overrides not applied: %+v", cfg.FFmpeg)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"fps", func(c *Config) { c.Export.FPS = 0 }},
		{"format", func(c *Config) { c.Export.Format = "gif" }},
		{"crf", func(c *Config) { c.Export.CRF = 60 }},
		{"scope", func(c *Config) { c.Editor.RippleScope = "sideways" }},
		{"tick", func(c *Config) { c.Playback.Tick = 0 }},
		{"zoom below one", func(c *Config) { c.AutoZoom.DefaultZoom = 0.5 }},
		{"zoom above max", func(c *Config) { c.AutoZoom.DefaultZoom = 4 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestSaveAndContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Export.CRF = 18
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Export.CRF != 18 {
		t.Errorf("expected crf 18, got %d", loaded.Export.CRF)
	}

	ctx := WithConfig(context.Background(), loaded)
	if FromContext(ctx) != loaded {
		t.Error("context should return the stored config")
	}
	if FromContext(context.Background()) == nil {
		t.Error("missing config should fall back to defaults")
	}
}
