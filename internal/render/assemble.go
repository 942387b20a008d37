package render

import (
	"fmt"
	"strconv"
)

// Fixed final encode parameters. Output dimensions and frame rate come from
// the job's output section; everything else is constant.
var (
	outputVideoArgs = []string{"-c:v", "libx264", "-preset", "fast", "-crf", "20"}
	outputAudioArgs = []string{"-c:a", "aac", "-b:a", "192k"}
)

// outputRequest is the fully-resolved final transcode: the ordered input
// files, the serialized composition graph (empty when no stages exist), the
// graph's final label, the input index of the narration track (-1 for a
// silent output with no audio stream at all), and the output parameters.
type outputRequest struct {
	inputs        []string
	filterComplex string
	videoLabel    string
	audioInput    int
	width         int
	height        int
	fps           int
	path          string
}

// assembleArgs builds the single final engine invocation.
func assembleArgs(req outputRequest) []string {
	args := []string{"-y"}
	for _, input := range req.inputs {
		args = append(args, "-i", input)
	}

	if req.filterComplex != "" {
		args = append(args, "-filter_complex", req.filterComplex, "-map", "["+req.videoLabel+"]")
	} else {
		args = append(args, "-map", "0:v")
	}

	if req.audioInput >= 0 {
		args = append(args, "-map", fmt.Sprintf("%d:a", req.audioInput))
		args = append(args, outputAudioArgs...)
	} else {
		args = append(args, "-an")
	}

	args = append(args,
		"-s", fmt.Sprintf("%dx%d", req.width, req.height),
		"-r", strconv.Itoa(req.fps),
	)
	args = append(args, outputVideoArgs...)
	return append(args, req.path)
}
