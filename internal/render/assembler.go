package render

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"montage/internal/jobspec"
	"montage/internal/services"
	"montage/internal/workspace"
)

// Engine runs one transcoding engine invocation with a fully-specified
// argument list.
type Engine interface {
	Run(ctx context.Context, args ...string) error
}

// Prober reports a media file's container duration in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Fetcher materializes a source locator at a local destination path.
type Fetcher interface {
	Fetch(ctx context.Context, source, dst string) error
}

// Assembler sequences a whole render job against its collaborators.
type Assembler struct {
	engine Engine
	probe  Prober
	fetch  Fetcher
	logger *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger attaches a logger for per-step diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAssembler constructs the pipeline orchestrator.
func NewAssembler(engine Engine, probe Prober, fetch Fetcher, opts ...Option) *Assembler {
	assembler := &Assembler{engine: engine, probe: probe, fetch: fetch}
	for _, opt := range opts {
		opt(assembler)
	}
	return assembler
}

type timedSegment struct {
	start float64
	path  string
}

// Run executes the job strictly in order: conform each clip, stitch the main
// video, join narration, encode subtitles, build the composition graph, and
// assemble the final artifact at outputPath. Intermediates live in ws, which
// the caller owns. The first failing step aborts the run.
func (a *Assembler) Run(ctx context.Context, job *jobspec.Job, ws *workspace.Workspace, outputPath string) error {
	stitched, err := a.stitchMain(ctx, job.Videos, ws)
	if err != nil {
		return err
	}

	narration, err := a.joinNarration(ctx, job.Audios, ws)
	if err != nil {
		return err
	}

	trackPath := ""
	if len(job.Subtitles) > 0 {
		trackPath = ws.Path("subs.srt")
		if err := WriteSRT(job.Subtitles, trackPath); err != nil {
			return err
		}
	}

	inputs := []string{stitched}
	graph := NewGraph()
	for i, avatar := range job.Avatars {
		scratch := ws.Path(fmt.Sprintf("av_%s.mp4", strings.ReplaceAll(uuid.NewString(), "-", "")))
		if err := a.fetch.Fetch(ctx, avatar.File, scratch); err != nil {
			return err
		}
		end, err := a.overlayWindowEnd(ctx, avatar, scratch)
		if err != nil {
			return err
		}
		graph.AddOverlay(Overlay{
			Input:  len(inputs),
			ScaleX: avatar.Size[0],
			ScaleY: avatar.Size[1],
			PosX:   avatar.Position[0],
			PosY:   avatar.Position[1],
			Start:  avatar.Start,
			End:    end,
		})
		inputs = append(inputs, scratch)
		if a.logger != nil {
			a.logger.Debug("overlay staged", "index", i+1, "start", avatar.Start, "end", end)
		}
	}
	if trackPath != "" {
		graph.AddSubtitles(trackPath)
	}

	// Narration presence alone decides whether the output carries sound.
	audioInput := -1
	if narration != "" {
		inputs = append(inputs, narration)
		audioInput = len(inputs) - 1
	}

	req := outputRequest{
		inputs:     inputs,
		audioInput: audioInput,
		width:      job.Output.Resolution[0],
		height:     job.Output.Resolution[1],
		fps:        job.Output.FPS,
		path:       outputPath,
	}
	if !graph.Empty() {
		req.filterComplex = graph.FilterComplex()
		req.videoLabel = graph.OutputLabel()
	}

	if err := a.engine.Run(ctx, assembleArgs(req)...); err != nil {
		return err
	}
	if a.logger != nil {
		a.logger.Info("output written", "path", outputPath)
	}
	return nil
}

// stitchMain fetches and conforms every clip, then joins them in ascending
// order of their output-timeline start, regardless of list order.
func (a *Assembler) stitchMain(ctx context.Context, clips []jobspec.Clip, ws *workspace.Workspace) (string, error) {
	if len(clips) == 0 {
		return "", services.Wrap(services.ErrValidation, "render", "stitch", "no videos listed", nil)
	}

	segments := make([]timedSegment, 0, len(clips))
	for i, clip := range clips {
		raw := ws.Path(fmt.Sprintf("v_raw_%d.mp4", i+1))
		if err := a.fetch.Fetch(ctx, clip.File, raw); err != nil {
			return "", err
		}
		seg := ws.Path(fmt.Sprintf("v_seg_%d.mp4", i+1))
		if err := a.conformSegment(ctx, raw, seg, clip.TargetDuration()); err != nil {
			return "", err
		}
		segments = append(segments, timedSegment{start: clip.Start, path: seg})
	}

	sort.SliceStable(segments, func(i, j int) bool { return segments[i].start < segments[j].start })
	paths := make([]string, len(segments))
	for i, seg := range segments {
		paths[i] = seg.path
	}

	stitched := ws.Path("main.mp4")
	if err := a.concatenate(ctx, paths, ws.Path("concat_v.txt"), stitched); err != nil {
		return "", err
	}
	return stitched, nil
}

// joinNarration fetches the narration parts and joins them verbatim in list
// order. Parts carry no timing metadata; alignment with the visual timeline
// is the caller's responsibility. An empty list yields no narration track.
func (a *Assembler) joinNarration(ctx context.Context, audios []jobspec.AudioClip, ws *workspace.Workspace) (string, error) {
	if len(audios) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(audios))
	for i, audio := range audios {
		raw := ws.Path(fmt.Sprintf("a_raw_%d.mp3", i+1))
		if err := a.fetch.Fetch(ctx, audio.File, raw); err != nil {
			return "", err
		}
		parts = append(parts, raw)
	}

	narration := ws.Path("narration.mp3")
	if err := a.concatenate(ctx, parts, ws.Path("concat_a.txt"), narration); err != nil {
		return "", err
	}
	return narration, nil
}

// overlayWindowEnd resolves the overlay's enable-window end: the declared end
// when present, otherwise start plus the overlay source's own duration.
func (a *Assembler) overlayWindowEnd(ctx context.Context, avatar jobspec.Avatar, scratch string) (float64, error) {
	if avatar.End != nil {
		return *avatar.End, nil
	}
	duration, err := a.probe.Duration(ctx, scratch)
	if err != nil {
		return 0, services.Wrap(services.ErrProbe, "render", "overlay probe", scratch, err)
	}
	if duration <= 0 {
		return 0, services.Wrap(services.ErrProbe, "render", "overlay probe", fmt.Sprintf("%s: no usable duration", scratch), nil)
	}
	return avatar.Start + duration, nil
}
