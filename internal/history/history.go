// Package history keeps a bounded linear undo/redo stack of deep-copied
// state snapshots.
package history

import "time"

// DefaultCapacity is the number of snapshots kept before the oldest is
// discarded.
const DefaultCapacity = 50

// Cloner is implemented by snapshot types that can deep-copy themselves.
type Cloner[S any] interface {
	Clone() S
}

// Entry is one recorded snapshot.
type Entry[S any] struct {
	Timestamp time.Time
	Action    string
	State     S
}

// Manager is a cursor over a list of snapshots. It is not safe for
// concurrent use.
type Manager[S Cloner[S]] struct {
	entries  []Entry[S]
	cursor   int
	capacity int
	now      func() time.Time
}

// New creates a manager holding at most capacity entries. A non-positive
// capacity selects DefaultCapacity.
func New[S Cloner[S]](capacity int) *Manager[S] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager[S]{cursor: -1, capacity: capacity, now: time.Now}
}

// Push records a copy of state after the cursor, discarding any redo tail.
func (m *Manager[S]) Push(state S, action string) {
	m.entries = m.entries[:m.cursor+1]
	m.entries = append(m.entries, Entry[S]{
		Timestamp: m.now(),
		Action:    action,
		State:     state.Clone(),
	})

	if over := len(m.entries) - m.capacity; over > 0 {
		m.entries = append(m.entries[:0:0], m.entries[over:]...)
	}
	m.cursor = len(m.entries) - 1
}

// Undo steps the cursor back and returns a copy of the snapshot there.
func (m *Manager[S]) Undo() (S, bool) {
	if !m.CanUndo() {
		var zero S
		return zero, false
	}
	m.cursor--
	return m.entries[m.cursor].State.Clone(), true
}

// Redo steps the cursor forward and returns a copy of the snapshot there.
func (m *Manager[S]) Redo() (S, bool) {
	if !m.CanRedo() {
		var zero S
		return zero, false
	}
	m.cursor++
	return m.entries[m.cursor].State.Clone(), true
}

func (m *Manager[S]) CanUndo() bool { return m.cursor > 0 }

func (m *Manager[S]) CanRedo() bool { return m.cursor < len(m.entries)-1 }

// DropRedo discards entries after the cursor.
func (m *Manager[S]) DropRedo() {
	m.entries = m.entries[:m.cursor+1]
}

func (m *Manager[S]) Clear() {
	m.entries = nil
	m.cursor = -1
}

func (m *Manager[S]) Cursor() int { return m.cursor }

func (m *Manager[S]) Len() int { return len(m.entries) }

// Entries returns the recorded timeline without copying states. Callers
// must not mutate them.
func (m *Manager[S]) Entries() []Entry[S] {
	return append([]Entry[S](nil), m.entries...)
}
