package timeline

import "math"

// SnapThreshold is the default drag snapping distance (ms).
const SnapThreshold = 100.0

// Snap adjusts candidate to the nearest start or end of a clip other than
// movingID when it lies strictly closer than threshold. The second return
// value reports whether a snap happened.
func Snap(cs Clips, movingID string, candidate, threshold float64) (float64, bool) {
	best := candidate
	bestDist := threshold
	snapped := false

	for _, c := range cs {
		if c.ID == movingID {
			continue
		}
		for _, edge := range [2]float64{c.StartTime, c.End()} {
			d := math.Abs(candidate - edge)
			if d < bestDist {
				best, bestDist, snapped = edge, d, true
			}
		}
	}

	return best, snapped
}
