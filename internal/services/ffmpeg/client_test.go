package ffmpeg

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"montage/internal/services"
)

func TestRunRejectsEmptyArgs(t *testing.T) {
	cli := NewCLI()
	if err := cli.Run(context.Background()); err == nil {
		t.Fatal("expected error for empty argument list")
	}
}

func TestRunWrapsNonZeroExit(t *testing.T) {
	original := commandContext
	t.Cleanup(func() { commandContext = original })
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", "echo 'boom: no such filter' >&2; exit 1")
	}

	cli := NewCLI(WithBinary("ffmpeg"))
	err := cli.Run(context.Background(), "-y", "-i", "in.mp4", "out.mp4")
	if err == nil {
		t.Fatal("expected failure for non-zero exit")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestRunSucceedsOnZeroExit(t *testing.T) {
	original := commandContext
	t.Cleanup(func() { commandContext = original })
	var captured []string
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		captured = append([]string{name}, args...)
		return exec.CommandContext(ctx, "true")
	}

	cli := NewCLI(WithBinary("/opt/ffmpeg/bin/ffmpeg"))
	if err := cli.Run(context.Background(), "-y", "out.mp4"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if captured[0] != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("expected configured binary, got %q", captured[0])
	}
}
