package interp

// Easing names a progress curve.
type Easing string

const (
	Linear    Easing = "linear"
	EaseIn    Easing = "ease-in"
	EaseOut   Easing = "ease-out"
	EaseInOut Easing = "ease-in-out"
)

// Valid reports whether e is one of the known curves.
func (e Easing) Valid() bool {
	switch e {
	case Linear, EaseIn, EaseOut, EaseInOut:
		return true
	}
	return false
}

// Ease maps linear progress p in [0,1] through the named curve.
// Unknown names fall back to linear.
func Ease(e Easing, p float64) float64 {
	switch e {
	case EaseIn:
		return p * p
	case EaseOut:
		return 1 - pow(1-p, 2)
	case EaseInOut:
		return EaseInOutCubic(p)
	default:
		return p
	}
}

// EaseInOutCubic applies smooth easing function
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// EaseInOutQuad is a softer variant of EaseInOutCubic.
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - pow(-2*t+2, 2)/2
}

// EaseOutBack overshoots slightly before settling at 1.
func EaseOutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	return 1 + c3*pow(t-1, 3) + c1*pow(t-1, 2)
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
