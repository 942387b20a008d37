package render

import (
	"context"
	"fmt"
	"strconv"

	"montage/internal/services"
)

// A source shorter than its slot by more than this tolerance is stretched
// instead of trimmed.
const conformEpsilon = 0.01

// Intermediate segments are normalized to one fixed grid so the stitched
// stream can be joined without re-encoding; the final assembly scales to the
// requested output resolution afterwards.
const (
	segmentWidth  = 1920
	segmentHeight = 1080
	segmentFPS    = 30
)

// Fixed encode parameters for conformed segments. Constant across all clips
// regardless of source format, which is what makes the concat step safe.
var segmentCodecArgs = []string{"-c:v", "libx264", "-preset", "medium", "-crf", "20"}

// conformArgs builds the engine argument list that conforms src to target
// seconds given its probed duration. Trim mode takes the first target seconds
// from offset zero; stretch mode slows playback by target/duration so the
// whole source fills the slot without looping seams. Both modes discard
// audio, normalize the pixel grid, and reset presentation timestamps to zero.
func conformArgs(src, dst string, sourceDuration, target float64) []string {
	scale := fmt.Sprintf("scale=%d:%d,fps=%d", segmentWidth, segmentHeight, segmentFPS)

	args := []string{"-y", "-loglevel", "error"}
	if sourceDuration >= target-conformEpsilon {
		args = append(args,
			"-ss", "0", "-i", src,
			"-t", formatFloat(target),
			"-vf", scale,
		)
	} else {
		ratio := target / sourceDuration
		args = append(args,
			"-i", src,
			"-vf", fmt.Sprintf("setpts=%s*PTS,%s", formatFloat(ratio), scale),
		)
	}
	args = append(args, "-reset_timestamps", "1", "-an")
	args = append(args, segmentCodecArgs...)
	return append(args, dst)
}

// conformSegment probes src and produces a duration-exact normalized segment
// at dst.
func (a *Assembler) conformSegment(ctx context.Context, src, dst string, target float64) error {
	duration, err := a.probe.Duration(ctx, src)
	if err != nil {
		return services.Wrap(services.ErrProbe, "conform", "probe", src, err)
	}
	if duration <= 0 {
		return services.Wrap(services.ErrProbe, "conform", "probe", fmt.Sprintf("%s: no usable duration", src), nil)
	}

	if a.logger != nil {
		mode := "trim"
		if duration < target-conformEpsilon {
			mode = "stretch"
		}
		a.logger.Debug("conforming segment", "source", src, "mode", mode, "duration", duration, "target", target)
	}
	return a.engine.Run(ctx, conformArgs(src, dst, duration, target)...)
}

// formatFloat renders a float without trailing zeros, matching how values are
// spliced into engine filter expressions.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
