package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestWithComponentTagsOutput(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, true)
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger := WithComponent("export")
	logger.Info().Int("frame", 3).Msg("frame written")

	out := buf.String()
	for _, want := range []string{"component=", "export", "frame written"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
}

func TestInfoLevelHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, false)

	logger := WithComponent("editor")
	logger.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug output should be suppressed, got %q", buf.String())
	}
}
