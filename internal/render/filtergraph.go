package render

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Stage kinds appearing in the composition graph.
const (
	StageScale     = "scale"
	StageOverlay   = "overlay"
	StageSubtitles = "subtitles"
)

// Stage is one node of the composition graph: a filter consuming labeled
// inputs and producing one labeled output.
type Stage struct {
	Kind   string
	Inputs []string
	Filter string
	Output string
}

// Overlay describes one avatar layer. Input is the index of the overlay's
// file in the final invocation's input list. Scale factors apply to the
// overlay's own dimensions; position fractions apply to the main canvas. The
// layer is visible only while the output timeline is inside [Start, End].
type Overlay struct {
	Input  int
	ScaleX float64
	ScaleY float64
	PosX   float64
	PosY   float64
	Start  float64
	End    float64
}

// Graph is the incrementally built chain of composition stages. Each stage
// consumes the previous stage's visual output, so insertion order determines
// z-order: later overlays draw on top.
type Graph struct {
	stages   []Stage
	overlays int
	last     string
}

// NewGraph starts a graph whose base layer is the stitched main video.
func NewGraph() *Graph {
	return &Graph{last: "0:v"}
}

// AddOverlay appends a scale stage for the overlay source and an overlay
// stage compositing it onto the current top of the chain.
func (g *Graph) AddOverlay(ov Overlay) {
	g.overlays++
	scaled := fmt.Sprintf("s%d", g.overlays)
	out := fmt.Sprintf("v%d", g.overlays)

	g.stages = append(g.stages,
		Stage{
			Kind:   StageScale,
			Inputs: []string{fmt.Sprintf("%d:v", ov.Input)},
			Filter: fmt.Sprintf("scale=iw*%s:ih*%s", formatFloat(ov.ScaleX), formatFloat(ov.ScaleY)),
			Output: scaled,
		},
		Stage{
			Kind:   StageOverlay,
			Inputs: []string{g.last, scaled},
			Filter: fmt.Sprintf("overlay=main_w*%s:main_h*%s:enable='between(t,%s,%s)'",
				formatFloat(ov.PosX), formatFloat(ov.PosY), formatFloat(ov.Start), formatFloat(ov.End)),
			Output: out,
		},
	)
	g.last = out
}

// AddSubtitles appends the burn-in stage consuming the current top of the
// chain. The track path is escaped for the filter option parser; a raw colon
// or quote in the path would be read as an option delimiter and corrupt the
// graph description.
func (g *Graph) AddSubtitles(trackPath string) {
	g.stages = append(g.stages, Stage{
		Kind:   StageSubtitles,
		Inputs: []string{g.last},
		Filter: fmt.Sprintf("subtitles='%s'", escapeFilterPath(trackPath)),
		Output: "vout",
	})
	g.last = "vout"
}

// Empty reports whether no composition stages exist, in which case the
// stitched stream is used directly and no filter chain forces re-decoding.
func (g *Graph) Empty() bool {
	return len(g.stages) == 0
}

// Stages returns the ordered stage descriptors.
func (g *Graph) Stages() []Stage {
	return g.stages
}

// OutputLabel returns the label of the chain's final visual output.
func (g *Graph) OutputLabel() string {
	return g.last
}

// FilterComplex serializes the stage list into the engine's graph syntax.
func (g *Graph) FilterComplex() string {
	parts := make([]string, 0, len(g.stages))
	for _, stage := range g.stages {
		var b strings.Builder
		for _, input := range stage.Inputs {
			b.WriteByte('[')
			b.WriteString(input)
			b.WriteByte(']')
		}
		b.WriteString(stage.Filter)
		b.WriteByte('[')
		b.WriteString(stage.Output)
		b.WriteByte(']')
		parts = append(parts, b.String())
	}
	return strings.Join(parts, ";")
}

var filterPathEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`)

func escapeFilterPath(path string) string {
	return filterPathEscaper.Replace(filepath.ToSlash(path))
}
