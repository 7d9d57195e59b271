package interp

// Keyframe is a parameter set anchored at a timeline time that can be
// blended toward a neighbouring keyframe of the same kind.
type Keyframe[K any] interface {
	// At returns the keyframe time in milliseconds.
	At() float64
	// Curve returns the easing applied when leaving this keyframe.
	Curve() Easing
	// Blend produces the state between the receiver and next. raw is the
	// linear progress used for discrete snapping, eased is the progress
	// used for numeric fields, and t is the query time stamped on the result.
	Blend(next K, raw, eased, t float64) K
}

// Interpolate evaluates a time-sorted keyframe sequence at time t.
//
// An empty sequence yields def. A single keyframe, a query before the
// first keyframe, and a query at or after the last keyframe return the
// nearest keyframe unchanged, including its own time. Between two
// keyframes the result is blended using the easing of the earlier one.
func Interpolate[K Keyframe[K]](keyframes []K, t float64, def K) K {
	if len(keyframes) == 0 {
		return def
	}
	if len(keyframes) == 1 {
		return keyframes[0]
	}

	before, after := -1, -1
	for i := range keyframes {
		if keyframes[i].At() <= t {
			before = i
			continue
		}
		after = i
		break
	}

	// If before first keyframe, use first keyframe
	if before == -1 {
		return keyframes[0]
	}
	// If after last keyframe, use last keyframe
	if after == -1 {
		return keyframes[before]
	}

	prev, next := keyframes[before], keyframes[after]
	progress := Progress(prev.At(), next.At(), t)
	return prev.Blend(next, progress, Ease(prev.Curve(), progress), t)
}

// Progress returns the clamped linear position of t between from and to.
func Progress(from, to, t float64) float64 {
	span := to - from
	if span <= 0 {
		return 1
	}
	return Clamp((t-from)/span, 0, 1)
}

// Lerp performs linear interpolation between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
