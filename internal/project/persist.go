package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/camreel/internal/keyframe"
	"github.com/ivlev/camreel/internal/timeline"
)

const (
	// FileName is the project document inside a project directory.
	FileName = "project.yaml"
	// FormatVersion is written to every saved project.
	FormatVersion = "1.0"
)

// File is the on-disk project document.
type File struct {
	Version         string               `yaml:"version" json:"version"`
	Clips           []timeline.Clip      `yaml:"clips" json:"clips"`
	WebcamKeyframes []keyframe.Webcam    `yaml:"webcamKeyframes" json:"webcamKeyframes"`
	ZoomKeyframes   []keyframe.Zoom      `yaml:"zoomKeyframes" json:"zoomKeyframes"`
	LayoutKeyframes []keyframe.Layout    `yaml:"layoutKeyframes" json:"layoutKeyframes"`
	TextLayers      []timeline.TextLayer `yaml:"textLayers" json:"textLayers"`
	Duration        *float64             `yaml:"duration,omitempty" json:"duration,omitempty"`
	Sources         Sources              `yaml:"sources,omitempty" json:"sources,omitempty"`
	SavedAt         string               `yaml:"savedAt" json:"savedAt"`
}

// ToFile converts the project to its document form.
func (p *Project) ToFile() *File {
	d := p.Duration
	return &File{
		Version:         FormatVersion,
		Clips:           nonNil(p.Clips.Sorted()),
		WebcamKeyframes: nonNil(p.Webcam.All()),
		ZoomKeyframes:   nonNil(p.Zoom.All()),
		LayoutKeyframes: nonNil(p.Layouts.Clone()),
		TextLayers:      nonNil(p.TextLayers.Clone()),
		Duration:        &d,
		Sources:         p.Sources,
		SavedAt:         time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// FromFile builds a project from a document. Missing arrays become empty
// and a missing duration defaults to DefaultDuration.
func FromFile(f *File) *Project {
	duration := DefaultDuration
	if f.Duration != nil && *f.Duration > 0 {
		duration = *f.Duration
	}

	p := &Project{
		EditState: EditState{
			Clips:      timeline.Clips(f.Clips).Sorted(),
			Webcam:     keyframe.NewWebcamTrack(),
			Zoom:       keyframe.NewZoomTrack(),
			TextLayers: timeline.TextLayers(f.TextLayers).Clone(),
		},
		Duration: duration,
		Sources:  f.Sources,
	}
	p.Webcam.Replace(f.WebcamKeyframes)
	p.Zoom.Replace(f.ZoomKeyframes)
	for _, l := range f.LayoutKeyframes {
		p.Layouts = p.Layouts.Add(l)
	}
	return p
}

// Save writes the project as YAML. A directory path receives FileName.
func Save(p *Project, path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, FileName)
	}

	data, err := yaml.Marshal(p.ToFile())
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}

	p.Path = path
	return nil
}

// Load reads a project document. YAML and JSON documents are both
// accepted. A directory path is resolved to FileName inside it.
func Load(path string) (*Project, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.Path = path
	return p, nil
}

// Parse decodes a YAML or JSON project document.
func Parse(data []byte) (*Project, error) {
	var f File
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return nil, fmt.Errorf("invalid project document: %w", err)
		}
		return FromFile(&f), nil
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid project document: %w", err)
	}
	return FromFile(&f), nil
}

// Dir returns the directory holding the project file.
func (p *Project) Dir() string {
	if p.Path == "" {
		return "."
	}
	return filepath.Dir(p.Path)
}

// SourcePath resolves a recording path against the project directory.
func (p *Project) SourcePath(track timeline.Track) string {
	src := p.Sources.Screen
	if track == timeline.TrackCam {
		src = p.Sources.Cam
	}
	if src == "" || filepath.IsAbs(src) {
		return src
	}
	return filepath.Join(p.Dir(), src)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
