package capture

import (
	"strings"
	"sync"
	"time"
)

// MoveThrottle is the minimum spacing of consecutive move events (ms).
const MoveThrottle = 50

type EventType string

const (
	EventMove     EventType = "move"
	EventClick    EventType = "click"
	EventKeypress EventType = "keypress"
)

type Button string

const (
	ButtonLeft   Button = "left"
	ButtonRight  Button = "right"
	ButtonMiddle Button = "middle"
)

// Event is one pointer or keyboard action. Timestamp is ms since the
// recording started.
type Event struct {
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Timestamp float64   `json:"timestamp"`
	Type      EventType `json:"type"`
	Button    Button    `json:"button,omitempty"`
	Key       string    `json:"key,omitempty"`
}

// Modifiers held during a key press.
type Modifiers struct {
	Ctrl, Shift, Alt, Meta bool
}

// KeyCombo formats a key press as "Ctrl+Shift+K". Single characters are
// upper-cased; named keys such as "Enter" are kept.
func KeyCombo(m Modifiers, key string) string {
	if len([]rune(key)) == 1 {
		key = strings.ToUpper(key)
	}
	var parts []string
	if m.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if m.Shift {
		parts = append(parts, "Shift")
	}
	if m.Alt {
		parts = append(parts, "Alt")
	}
	if m.Meta {
		parts = append(parts, "Meta")
	}
	return strings.Join(append(parts, key), "+")
}

// EventLog collects input events relative to a start instant. It is safe
// for concurrent use.
type EventLog struct {
	mu     sync.Mutex
	start  time.Time
	now    func() time.Time
	events []Event
}

// NewEventLog starts the clock at now(). A nil now uses time.Now.
func NewEventLog(now func() time.Time) *EventLog {
	if now == nil {
		now = time.Now
	}
	return &EventLog{start: now(), now: now}
}

func (l *EventLog) elapsed() float64 {
	return float64(l.now().Sub(l.start)) / float64(time.Millisecond)
}

// Add appends e, dropping move events closer than MoveThrottle to a
// preceding move. It reports whether the event was kept.
func (l *EventLog) Add(e Event) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e.Type == EventMove && len(l.events) > 0 {
		last := l.events[len(l.events)-1]
		if last.Type == EventMove && e.Timestamp-last.Timestamp < MoveThrottle {
			return false
		}
	}
	l.events = append(l.events, e)
	return true
}

func (l *EventLog) Move(x, y float64) bool {
	return l.Add(Event{X: x, Y: y, Timestamp: l.elapsed(), Type: EventMove})
}

func (l *EventLog) Click(x, y float64, b Button) bool {
	return l.Add(Event{X: x, Y: y, Timestamp: l.elapsed(), Type: EventClick, Button: b})
}

// Key records a key press. Key presses carry no pointer position.
func (l *EventLog) Key(m Modifiers, key string) bool {
	return l.Add(Event{Timestamp: l.elapsed(), Type: EventKeypress, Key: KeyCombo(m, key)})
}

// Events returns a copy of the log.
func (l *EventLog) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Reset drops every event.
func (l *EventLog) Reset() {
	l.mu.Lock()
	l.events = nil
	l.mu.Unlock()
}
