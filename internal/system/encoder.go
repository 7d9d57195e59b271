package system

import (
	"context"
	"os/exec"
	"strings"
)

// BestH264Encoder picks the fastest H.264 encoder the local ffmpeg build
// offers.
func BestH264Encoder(ctx context.Context, ffmpeg string) string {
	// Priority:
	// 1. macOS (VideoToolbox)
	// 2. NVIDIA (NVENC)
	// 3. Software (libx264)
	out, err := exec.CommandContext(ctx, ffmpeg, "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	return pickEncoder(string(out))
}

func pickEncoder(listing string) string {
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(listing, name) {
			return name
		}
	}
	return "libx264"
}
