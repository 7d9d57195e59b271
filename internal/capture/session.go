// Package capture drives a screen and webcam recording and stores it as a
// project directory the editor can open.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrBusy         = errors.New("a recording is already in progress")
	ErrNotRecording = errors.New("no recording in progress")
)

// Recorder is one capture device. Start begins buffering; Stop finalizes
// the stream and hands it over; Discard drops everything buffered.
type Recorder interface {
	Start(ctx context.Context) error
	Pause() error
	Resume() error
	Stop(ctx context.Context) (io.ReadCloser, error)
	Discard()
}

type State int

const (
	StateIdle State = iota
	StateRecording
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateRecording:
		return "recording"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// Result describes a stored recording.
type Result struct {
	Dir    string
	Meta   Meta
	Screen string
	Cam    string // empty when no webcam was recorded
}

// Session moves between idle, recording and paused. Stop stores the
// recording; Cancel drops it without writing anything.
type Session struct {
	Screen Recorder
	// Cam is optional.
	Cam Recorder
	Log zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time

	mu       sync.Mutex
	state    State
	settings Settings
	events   *EventLog
}

func (s *Session) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Events is the live event log. It is nil while idle.
func (s *Session) Events() *EventLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events
}

func (s *Session) Start(ctx context.Context, settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return ErrBusy
	}
	if s.Screen == nil {
		return errors.New("no screen recorder configured")
	}

	if err := s.Screen.Start(ctx); err != nil {
		return fmt.Errorf("start screen recorder: %w", err)
	}
	if s.Cam != nil {
		if err := s.Cam.Start(ctx); err != nil {
			s.Screen.Discard()
			return fmt.Errorf("start webcam recorder: %w", err)
		}
	}

	s.settings = settings
	s.events = NewEventLog(s.now)
	s.state = StateRecording
	s.Log.Info().Bool("webcam", s.Cam != nil).Msg("recording started")
	return nil
}

func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrNotRecording
	}
	if err := s.eachRecorder(Recorder.Pause); err != nil {
		return fmt.Errorf("pause: %w", err)
	}
	s.state = StatePaused
	return nil
}

func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaused {
		return ErrNotRecording
	}
	if err := s.eachRecorder(Recorder.Resume); err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	s.state = StateRecording
	return nil
}

func (s *Session) eachRecorder(fn func(Recorder) error) error {
	if err := fn(s.Screen); err != nil {
		return err
	}
	if s.Cam != nil {
		return fn(s.Cam)
	}
	return nil
}

// Stop finalizes both streams and writes them with the metadata into dir,
// which is created if needed. The session is idle afterwards even when
// storing fails.
func (s *Session) Stop(ctx context.Context, dir string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdle {
		return Result{}, ErrNotRecording
	}
	events := s.events.Events()
	settings := s.settings
	s.reset()

	res := Result{Dir: dir, Screen: filepath.Join(dir, ScreenFileName)}
	_, statErr := os.Stat(dir)
	created := os.IsNotExist(statErr)
	if err := os.MkdirAll(dir, 0755); err != nil {
		s.discard()
		return res, err
	}

	if err := store(ctx, s.Screen, res.Screen); err != nil {
		if s.Cam != nil {
			s.Cam.Discard()
		}
		s.removePartial(res, created)
		return res, fmt.Errorf("screen recording: %w", err)
	}
	if s.Cam != nil {
		res.Cam = filepath.Join(dir, CamFileName)
		if err := store(ctx, s.Cam, res.Cam); err != nil {
			s.removePartial(res, created)
			return res, fmt.Errorf("webcam recording: %w", err)
		}
	}

	res.Meta = NewMeta(settings, events, s.now())
	if err := WriteMeta(dir, res.Meta); err != nil {
		s.removePartial(res, created)
		return res, err
	}

	s.Log.Info().Str("dir", dir).Int("events", len(events)).Float64("duration", res.Meta.Duration()).Msg("recording saved")
	return res, nil
}

// removePartial deletes what a failed Stop wrote, and dir itself when Stop
// created it.
func (s *Session) removePartial(res Result, created bool) {
	for _, path := range []string{res.Screen, res.Cam, filepath.Join(res.Dir, MetaFileName)} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.Log.Warn().Err(err).Str("path", path).Msg("failed to remove partial recording")
		}
	}
	if created {
		os.Remove(res.Dir)
	}
}

// Cancel drops the recording. Nothing is written or encoded.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdle {
		return
	}
	s.discard()
	if s.events != nil {
		s.events.Reset()
	}
	s.reset()
	s.Log.Info().Msg("recording canceled")
}

func (s *Session) discard() {
	s.Screen.Discard()
	if s.Cam != nil {
		s.Cam.Discard()
	}
}

func (s *Session) reset() {
	s.state = StateIdle
	s.events = nil
	s.settings = Settings{}
}

func store(ctx context.Context, r Recorder, path string) error {
	stream, err := r.Stop(ctx)
	if err != nil {
		return err
	}
	defer stream.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, stream); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
