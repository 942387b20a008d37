package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"montage/internal/jobspec"
	"montage/internal/services"
	"montage/internal/workspace"
)

type fakeEngine struct {
	invocations [][]string
	fail        error
}

func (e *fakeEngine) Run(_ context.Context, args ...string) error {
	e.invocations = append(e.invocations, append([]string(nil), args...))
	return e.fail
}

type fakeProbe struct {
	fn func(path string) (float64, error)
}

func (p *fakeProbe) Duration(_ context.Context, path string) (float64, error) {
	return p.fn(path)
}

type fakeFetcher struct {
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, source, dst string) error {
	f.fetched = append(f.fetched, source)
	return os.WriteFile(dst, []byte(source), 0o644)
}

func newTestWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.Open(t.TempDir(), "render_")
	if err != nil {
		t.Fatalf("open workspace: %v", err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func constantDuration(d float64) *fakeProbe {
	return &fakeProbe{fn: func(string) (float64, error) { return d, nil }}
}

func TestRunSingleClipSilentJob(t *testing.T) {
	engine := &fakeEngine{}
	assembler := NewAssembler(engine, constantDuration(12), &fakeFetcher{})
	ws := newTestWorkspace(t)

	job := &jobspec.Job{
		Videos: []jobspec.Clip{{File: "clip-a", Start: 0, End: 10}},
		Output: jobspec.Output{Resolution: [2]int{1280, 720}, FPS: 24},
	}
	out := filepath.Join(t.TempDir(), "final.mp4")
	if err := assembler.Run(context.Background(), job, ws, out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(engine.invocations) != 3 {
		t.Fatalf("expected conform + concat + assemble, got %d invocations", len(engine.invocations))
	}

	final := strings.Join(engine.invocations[2], " ")
	for _, fragment := range []string{"-map 0:v", "-an", "-s 1280x720", "-r 24"} {
		if !strings.Contains(final, fragment) {
			t.Fatalf("final invocation missing %q: %q", fragment, final)
		}
	}
	if engine.invocations[2][len(engine.invocations[2])-1] != out {
		t.Fatalf("final invocation does not end with output path: %v", engine.invocations[2])
	}
	if strings.Contains(final, "-filter_complex") {
		t.Fatalf("no composition stages expected, got %q", final)
	}
}

func TestRunConcatenatesClipsByTimelineStart(t *testing.T) {
	engine := &fakeEngine{}
	assembler := NewAssembler(engine, constantDuration(20), &fakeFetcher{})
	ws := newTestWorkspace(t)

	job := &jobspec.Job{
		Videos: []jobspec.Clip{
			{File: "late", Start: 10, End: 15},
			{File: "first", Start: 0, End: 5},
			{File: "middle", Start: 5, End: 10},
		},
		Output: jobspec.Output{Resolution: [2]int{1280, 720}, FPS: 24},
	}
	if err := assembler.Run(context.Background(), job, ws, filepath.Join(t.TempDir(), "final.mp4")); err != nil {
		t.Fatalf("Run: %v", err)
	}

	list, err := os.ReadFile(ws.Path("concat_v.txt"))
	if err != nil {
		t.Fatal(err)
	}
	want := concatList([]string{
		ws.Path("v_seg_2.mp4"),
		ws.Path("v_seg_3.mp4"),
		ws.Path("v_seg_1.mp4"),
	})
	if string(list) != want {
		t.Fatalf("concat list = %q, want %q", list, want)
	}
}

func TestRunStretchesShortSource(t *testing.T) {
	engine := &fakeEngine{}
	assembler := NewAssembler(engine, constantDuration(4), &fakeFetcher{})
	ws := newTestWorkspace(t)

	job := &jobspec.Job{
		Videos: []jobspec.Clip{{File: "short", Start: 0, End: 10}},
		Output: jobspec.Output{Resolution: [2]int{1280, 720}, FPS: 24},
	}
	if err := assembler.Run(context.Background(), job, ws, filepath.Join(t.TempDir(), "final.mp4")); err != nil {
		t.Fatalf("Run: %v", err)
	}

	conform := strings.Join(engine.invocations[0], " ")
	if !strings.Contains(conform, "setpts=2.5*PTS") {
		t.Fatalf("expected stretch ratio 2.5, got %q", conform)
	}
}

func TestRunNarrationSelectsAudio(t *testing.T) {
	engine := &fakeEngine{}
	assembler := NewAssembler(engine, constantDuration(10), &fakeFetcher{})
	ws := newTestWorkspace(t)

	job := &jobspec.Job{
		Videos: []jobspec.Clip{{File: "clip", Start: 0, End: 10}},
		Audios: []jobspec.AudioClip{{File: "narr-1"}, {File: "narr-2"}},
		Output: jobspec.Output{Resolution: [2]int{1280, 720}, FPS: 24},
	}
	if err := assembler.Run(context.Background(), job, ws, filepath.Join(t.TempDir(), "final.mp4")); err != nil {
		t.Fatalf("Run: %v", err)
	}

	list, err := os.ReadFile(ws.Path("concat_a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	want := concatList([]string{ws.Path("a_raw_1.mp3"), ws.Path("a_raw_2.mp3")})
	if string(list) != want {
		t.Fatalf("audio concat list = %q, want %q", list, want)
	}

	final := strings.Join(engine.invocations[len(engine.invocations)-1], " ")
	if !strings.Contains(final, "-map 1:a -c:a aac -b:a 192k") {
		t.Fatalf("expected narration mapped as audio, got %q", final)
	}
	if strings.Contains(final, "-an") {
		t.Fatalf("narrated output must carry audio, got %q", final)
	}
}

func TestRunOverlaysAndSubtitles(t *testing.T) {
	engine := &fakeEngine{}
	end1, end2 := 5.0, 8.0
	assembler := NewAssembler(engine, constantDuration(10), &fakeFetcher{})
	ws := newTestWorkspace(t)

	job := &jobspec.Job{
		Videos: []jobspec.Clip{{File: "clip", Start: 0, End: 10}},
		Avatars: []jobspec.Avatar{
			{File: "av-a", Start: 0, End: &end1, Size: [2]float64{0.25, 0.25}, Position: [2]float64{0.7, 0.1}},
			{File: "av-b", Start: 2, End: &end2, Size: [2]float64{0.5, 0.5}, Position: [2]float64{0, 0}},
		},
		Subtitles: []jobspec.Cue{{Start: 0, End: 2, Text: "hi"}},
		Output:    jobspec.Output{Resolution: [2]int{1920, 1080}, FPS: 30},
	}
	if err := assembler.Run(context.Background(), job, ws, filepath.Join(t.TempDir(), "final.mp4")); err != nil {
		t.Fatalf("Run: %v", err)
	}

	final := engine.invocations[len(engine.invocations)-1]
	joined := strings.Join(final, " ")
	if !strings.Contains(joined, "-filter_complex") {
		t.Fatalf("expected composition graph, got %q", joined)
	}
	// Listed-second avatar composites on top of the first; subtitles burn into
	// the chain's top and feed the mapped output.
	if !strings.Contains(joined, "[v1][s2]overlay=") {
		t.Fatalf("expected z-order chain, got %q", joined)
	}
	if !strings.Contains(joined, "subtitles=") || !strings.Contains(joined, "-map [vout]") {
		t.Fatalf("expected subtitle burn-in mapped as output, got %q", joined)
	}

	if _, err := os.Stat(ws.Path("subs.srt")); err != nil {
		t.Fatalf("expected subtitle track in workspace: %v", err)
	}
}

func TestRunOverlayWindowDefaultsToSourceDuration(t *testing.T) {
	engine := &fakeEngine{}
	probe := &fakeProbe{fn: func(path string) (float64, error) {
		if strings.Contains(filepath.Base(path), "av_") {
			return 4, nil
		}
		return 10, nil
	}}
	assembler := NewAssembler(engine, probe, &fakeFetcher{})
	ws := newTestWorkspace(t)

	job := &jobspec.Job{
		Videos:  []jobspec.Clip{{File: "clip", Start: 0, End: 10}},
		Avatars: []jobspec.Avatar{{File: "av", Start: 2, Size: [2]float64{0.3, 0.3}, Position: [2]float64{0.1, 0.1}}},
		Output:  jobspec.Output{Resolution: [2]int{1280, 720}, FPS: 24},
	}
	if err := assembler.Run(context.Background(), job, ws, filepath.Join(t.TempDir(), "final.mp4")); err != nil {
		t.Fatalf("Run: %v", err)
	}

	final := strings.Join(engine.invocations[len(engine.invocations)-1], " ")
	if !strings.Contains(final, "enable='between(t,2,6)'") {
		t.Fatalf("expected enable window [2,6], got %q", final)
	}
}

func TestRunUnprobeableSourceAborts(t *testing.T) {
	engine := &fakeEngine{}
	assembler := NewAssembler(engine, constantDuration(0), &fakeFetcher{})
	ws := newTestWorkspace(t)

	job := &jobspec.Job{
		Videos: []jobspec.Clip{{File: "clip", Start: 0, End: 10}},
		Output: jobspec.Output{Resolution: [2]int{1280, 720}, FPS: 24},
	}
	err := assembler.Run(context.Background(), job, ws, filepath.Join(t.TempDir(), "final.mp4"))
	if !errors.Is(err, services.ErrProbe) {
		t.Fatalf("expected ErrProbe, got %v", err)
	}
	if len(engine.invocations) != 0 {
		t.Fatalf("no engine invocation expected after probe failure, got %d", len(engine.invocations))
	}
}

func TestRunEngineFailureAborts(t *testing.T) {
	engine := &fakeEngine{fail: services.Wrap(services.ErrExternalTool, "ffmpeg", "run", "boom", nil)}
	assembler := NewAssembler(engine, constantDuration(10), &fakeFetcher{})
	ws := newTestWorkspace(t)

	job := &jobspec.Job{
		Videos: []jobspec.Clip{{File: "clip", Start: 0, End: 10}},
		Output: jobspec.Output{Resolution: [2]int{1280, 720}, FPS: 24},
	}
	err := assembler.Run(context.Background(), job, ws, filepath.Join(t.TempDir(), "final.mp4"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if len(engine.invocations) != 1 {
		t.Fatalf("run must abort after first failure, got %d invocations", len(engine.invocations))
	}
}
