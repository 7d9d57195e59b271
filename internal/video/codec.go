package video

import (
	"fmt"
	"strings"

	"github.com/ivlev/camreel/internal/export"
)

// Encoder resolves the ffmpeg encoder name for settings. hwH264 is the
// preferred H.264 encoder detected on this machine.
func Encoder(s export.Settings, hwH264 string) string {
	switch strings.ToLower(s.Codec) {
	case "", "h264":
		if strings.EqualFold(s.Format, "webm") {
			return "libvpx-vp9"
		}
		if hwH264 != "" {
			return hwH264
		}
		return "libx264"
	case "h265", "hevc":
		return "libx265"
	case "vp9":
		return "libvpx-vp9"
	default:
		return s.Codec
	}
}

// qualityArgs maps CRF and bitrate onto the options each encoder honours.
func qualityArgs(encoder string, s export.Settings) []string {
	var args []string
	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox has no CRF mode; fall back to a bitrate.
		bitrate := s.Bitrate
		if bitrate == "" {
			bitrate = fmt.Sprintf("%dk", (51-s.CRF)*250)
		}
		return append(args, "-b:v", bitrate)
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", s.CRF))
	case "libvpx-vp9":
		args = append(args, "-crf", fmt.Sprintf("%d", s.CRF), "-row-mt", "1")
		if s.Bitrate == "" {
			// Constant quality mode needs an explicit zero bitrate.
			return append(args, "-b:v", "0")
		}
	default: // libx264, libx265
		args = append(args, "-crf", fmt.Sprintf("%d", s.CRF), "-preset", "fast")
	}

	if s.Bitrate != "" {
		args = append(args, "-b:v", s.Bitrate)
	}
	return args
}

// containerArgs returns muxer options for the output format.
func containerArgs(s export.Settings) []string {
	if strings.EqualFold(s.Format, "webm") {
		return []string{"-f", "webm"}
	}
	return []string{"-movflags", "+faststart"}
}

func audioCodec(s export.Settings) string {
	if strings.EqualFold(s.Format, "webm") {
		return "libopus"
	}
	return "aac"
}
