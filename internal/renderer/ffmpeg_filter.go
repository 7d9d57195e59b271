package renderer

import (
	"fmt"
	"math"
	"strings"

	"github.com/ivlev/camreel/internal/keyframe"
)

// ZoomPanFilter creates an ffmpeg zoompan filter following linear zoom
// keyframes whose times are relative to the start of the input (ms).
func ZoomPanFilter(kfs []keyframe.Zoom, fps, width, height int) string {
	if len(kfs) == 0 {
		return ""
	}

	zoomExpr := buildExpression(kfs, fps, func(k keyframe.Zoom) float64 { return k.Scale })
	cxExpr := buildExpression(kfs, fps, func(k keyframe.Zoom) float64 { return k.CenterX })
	cyExpr := buildExpression(kfs, fps, func(k keyframe.Zoom) float64 { return k.CenterY })

	// Keep the zoomed viewport centered on the target and inside the frame.
	xExpr := fmt.Sprintf("max(0,min(iw-iw/zoom,(%s)*iw-iw/zoom/2))", cxExpr)
	yExpr := fmt.Sprintf("max(0,min(ih-ih/zoom,(%s)*ih-ih/zoom/2))", cyExpr)

	return fmt.Sprintf("zoompan=z='%s':x='%s':y='%s':d=1:s=%dx%d:fps=%d",
		zoomExpr, xExpr, yExpr, width, height, fps)
}

// buildExpression creates a piecewise linear expression over the output
// frame number.
func buildExpression(kfs []keyframe.Zoom, fps int, value func(keyframe.Zoom) float64) string {
	if len(kfs) == 1 {
		return fmt.Sprintf("%.6f", value(kfs[0]))
	}

	var b strings.Builder
	for i := 0; i < len(kfs)-1; i++ {
		startFrame := frameAt(kfs[i].Time, fps)
		endFrame := frameAt(kfs[i+1].Time, fps)
		startValue := value(kfs[i])
		endValue := value(kfs[i+1])

		// Linear interpolation between keyframes
		// if(lte(on,endFrame),startValue+(on-startFrame)/(endFrame-startFrame)*(endValue-startValue),...)
		if endFrame > startFrame {
			fmt.Fprintf(&b, "if(lte(on,%d),%.6f+(on-%d)/%d*(%.6f),",
				endFrame, startValue, startFrame, endFrame-startFrame, endValue-startValue)
		} else {
			fmt.Fprintf(&b, "if(lte(on,%d),%.6f,", endFrame, endValue)
		}
	}

	// Close all if statements and add final value
	fmt.Fprintf(&b, "%.6f", value(kfs[len(kfs)-1]))
	b.WriteString(strings.Repeat(")", len(kfs)-1))

	return b.String()
}

func frameAt(ms float64, fps int) int {
	return int(math.Round(ms * float64(fps) / 1000))
}
