package timeline

import (
	"github.com/google/uuid"
)

// MinDuration is the shortest clip a trim may produce (ms).
const MinDuration = 100.0

// Track identifies which source recording a clip references.
type Track string

const (
	TrackScreen Track = "screen"
	TrackCam    Track = "cam"
)

// Clip is a bounded time-range reference into one source recording.
type Clip struct {
	ID           string  `yaml:"id" json:"id"`
	Track        Track   `yaml:"type" json:"type"`
	StartTime    float64 `yaml:"startTime" json:"startTime"`     // Position on timeline (ms)
	Duration     float64 `yaml:"duration" json:"duration"`       // Clip duration (ms)
	SourceStart  float64 `yaml:"sourceStart" json:"sourceStart"` // Start position in source file (ms)
	SourceEnd    float64 `yaml:"sourceEnd" json:"sourceEnd"`     // End position in source file (ms)
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	FadeIn       float64 `yaml:"fadeIn" json:"fadeIn"`   // ms
	FadeOut      float64 `yaml:"fadeOut" json:"fadeOut"` // ms
	Opacity      float64 `yaml:"opacity" json:"opacity"` // 0-1
	Volume       float64 `yaml:"volume" json:"volume"`   // 0-2
	AudioEnabled bool    `yaml:"audioEnabled" json:"audioEnabled"`
}

// NewClip creates an enabled clip covering [sourceStart, sourceEnd) of the
// track's recording, placed at start.
func NewClip(id string, track Track, start, sourceStart, sourceEnd float64) Clip {
	if id == "" {
		id = NewID()
	}
	return Clip{
		ID:           id,
		Track:        track,
		StartTime:    start,
		Duration:     sourceEnd - sourceStart,
		SourceStart:  sourceStart,
		SourceEnd:    sourceEnd,
		Enabled:      true,
		Opacity:      1,
		Volume:       1,
		AudioEnabled: true,
	}
}

// End returns the exclusive end of the clip on the timeline.
func (c Clip) End() float64 {
	return c.StartTime + c.Duration
}

// Contains reports whether t lies in [StartTime, End).
func (c Clip) Contains(t float64) bool {
	return t >= c.StartTime && t < c.End()
}

// SourceOffset maps a timeline time to a position in the source recording.
func (c Clip) SourceOffset(t float64) float64 {
	return c.SourceStart + (t - c.StartTime)
}

// NewID returns a fresh identifier for clips and text layers.
func NewID() string {
	return uuid.NewString()
}
