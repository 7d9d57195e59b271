package keyframe

import (
	"math"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/camreel/internal/interp"
)

// Key quantizes a millisecond time to whole microseconds so that float
// noise cannot produce two keyframes at the same instant.
func Key(t float64) int64 {
	return int64(math.Round(t * 1000))
}

// Track is a time-ordered keyframe collection with at most one keyframe per
// quantized time. The zero value is not usable; build tracks with NewTrack.
type Track[K interp.Keyframe[K]] struct {
	byKey map[int64]K
	keys  []int64 // sorted
	def   K
}

// NewTrack returns an empty track that queries to def.
func NewTrack[K interp.Keyframe[K]](def K) *Track[K] {
	return &Track[K]{byKey: make(map[int64]K), def: def}
}

// Default returns the value Query yields on an empty track.
func (tr *Track[K]) Default() K { return tr.def }

func (tr *Track[K]) Len() int { return len(tr.keys) }

// Add inserts kf, replacing any keyframe at the same quantized time.
func (tr *Track[K]) Add(kf K) {
	k := Key(kf.At())
	if _, exists := tr.byKey[k]; !exists {
		i := sort.Search(len(tr.keys), func(i int) bool { return tr.keys[i] >= k })
		tr.keys = append(tr.keys, 0)
		copy(tr.keys[i+1:], tr.keys[i:])
		tr.keys[i] = k
	}
	tr.byKey[k] = kf
}

// At returns the keyframe stored at time.
func (tr *Track[K]) At(time float64) (K, bool) {
	kf, ok := tr.byKey[Key(time)]
	return kf, ok
}

// Update applies fn to the keyframe at time. If fn moves the keyframe to a
// new time it is re-keyed, replacing whatever lived there.
func (tr *Track[K]) Update(time float64, fn func(K) K) bool {
	kf, ok := tr.At(time)
	if !ok {
		return false
	}
	updated := fn(kf)
	if Key(updated.At()) != Key(time) {
		tr.Delete(time)
	}
	tr.Add(updated)
	return true
}

// Delete removes the keyframe at time.
func (tr *Track[K]) Delete(time float64) bool {
	k := Key(time)
	if _, ok := tr.byKey[k]; !ok {
		return false
	}
	delete(tr.byKey, k)
	i := sort.Search(len(tr.keys), func(i int) bool { return tr.keys[i] >= k })
	tr.keys = append(tr.keys[:i], tr.keys[i+1:]...)
	return true
}

// All returns the keyframes in time order.
func (tr *Track[K]) All() []K {
	out := make([]K, 0, len(tr.keys))
	for _, k := range tr.keys {
		out = append(out, tr.byKey[k])
	}
	return out
}

// Query evaluates the track at t.
func (tr *Track[K]) Query(t float64) K {
	return interp.Interpolate(tr.All(), t, tr.def)
}

// Clone returns an independent track. Keyframes are plain values.
func (tr *Track[K]) Clone() *Track[K] {
	c := NewTrack(tr.def)
	for _, k := range tr.keys {
		c.byKey[k] = tr.byKey[k]
	}
	c.keys = append([]int64(nil), tr.keys...)
	return c
}

// Replace discards all keyframes and inserts kfs.
func (tr *Track[K]) Replace(kfs []K) {
	tr.byKey = make(map[int64]K, len(kfs))
	tr.keys = tr.keys[:0]
	for _, kf := range kfs {
		tr.Add(kf)
	}
}

// MarshalYAML writes the track as a time-ordered sequence.
func (tr *Track[K]) MarshalYAML() (interface{}, error) {
	return tr.All(), nil
}

// UnmarshalYAML reads a sequence. Later duplicates win.
func (tr *Track[K]) UnmarshalYAML(node *yaml.Node) error {
	var kfs []K
	if err := node.Decode(&kfs); err != nil {
		return err
	}
	if tr.byKey == nil {
		tr.byKey = make(map[int64]K)
	}
	tr.Replace(kfs)
	return nil
}
