package render

import (
	"fmt"
	"math"
	"os"
	"strings"

	"montage/internal/jobspec"
)

// FormatTimestamp renders seconds as an SRT timestamp, HH:MM:SS,mmm with a
// zero-padded but unbounded hour field.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	whole := int(seconds)
	millis := int(math.Round((seconds - float64(whole)) * 1000))
	if millis >= 1000 {
		whole++
		millis -= 1000
	}
	return fmt.Sprintf("%02d:%02d:%02d,%03d", whole/3600, (whole%3600)/60, whole%60, millis)
}

// RenderSRT produces the subtitle track for the given cues. Numbering is
// 1-based in input order; cues are never re-sorted or dropped, so an
// empty-text cue still occupies its slot as a silent gap marker.
func RenderSRT(cues []jobspec.Cue) string {
	lines := make([]string, 0, len(cues)*4)
	for i, cue := range cues {
		lines = append(lines,
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%s --> %s", FormatTimestamp(cue.Start), FormatTimestamp(cue.End)),
			cue.Text,
			"",
		)
	}
	return strings.Join(lines, "\n")
}

// WriteSRT writes the rendered subtitle track to path.
func WriteSRT(cues []jobspec.Cue, path string) error {
	if err := os.WriteFile(path, []byte(RenderSRT(cues)), 0o644); err != nil {
		return fmt.Errorf("write subtitle track: %w", err)
	}
	return nil
}
