package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	MetaFileName   = "recording_meta.json"
	ScreenFileName = "recording_screen.webm"
	CamFileName    = "recording_cam.webm"
	MetaVersion    = "1.0"
)

type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type AudioInputs struct {
	System     bool    `json:"system"`
	Microphone *string `json:"microphone"` // device ID, nil when off
}

type WebcamSettings struct {
	Enabled    bool   `json:"enabled"`
	DeviceID   string `json:"deviceId"`
	Resolution string `json:"resolution"`
}

// Settings is what the user chose before recording.
type Settings struct {
	Resolution   string         `json:"resolution,omitempty"` // 720p | 1080p | 1440p | 4K
	FPS          int            `json:"fps,omitempty"`
	ScreenSource string         `json:"screenSource,omitempty"` // full | window | region
	Region       *Region        `json:"region,omitempty"`
	AudioInputs  AudioInputs    `json:"audioInputs"`
	Webcam       WebcamSettings `json:"webcam"`
	ShowCursor   bool           `json:"showCursor"`
}

// Meta is the sidecar written next to the recordings.
type Meta struct {
	RecordingSettings Settings `json:"recordingSettings"`
	Events            []Event  `json:"events"`
	RecordedAt        string   `json:"recordedAt"`
	Version           string   `json:"version"`
}

func NewMeta(settings Settings, events []Event, at time.Time) Meta {
	if events == nil {
		events = []Event{}
	}
	return Meta{
		RecordingSettings: settings,
		Events:            events,
		RecordedAt:        at.UTC().Format(time.RFC3339Nano),
		Version:           MetaVersion,
	}
}

// Duration approximates the recording length from the last event.
func (m Meta) Duration() float64 {
	if len(m.Events) == 0 {
		return 0
	}
	return m.Events[len(m.Events)-1].Timestamp
}

// RecordedTime parses RecordedAt, returning the zero time when invalid.
func (m Meta) RecordedTime() time.Time {
	t, err := time.Parse(time.RFC3339Nano, m.RecordedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

func WriteMeta(dir string, m Meta) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode recording metadata: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, MetaFileName), data, 0644)
}

func ReadMeta(dir string) (Meta, error) {
	var m Meta
	data, err := os.ReadFile(filepath.Join(dir, MetaFileName))
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("invalid recording metadata in %s: %w", dir, err)
	}
	return m, nil
}
