package render

import (
	"context"
	"os"
	"strings"

	"montage/internal/services"
)

// concatList renders the demuxer list file content for an ordered set of
// clips. Single quotes in paths are escaped so the demuxer reads them intact.
func concatList(paths []string) string {
	var b strings.Builder
	for _, path := range paths {
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(path, "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}

// concatArgs builds the stream-level join invocation. No re-encoding happens
// here; the inputs must already share codec parameters, resolution, and frame
// rate or the joined output is corrupt. That precondition is established by
// the conformer for video and assumed by convention for narration parts.
func concatArgs(listPath, dst string) []string {
	return []string{
		"-y", "-loglevel", "error",
		"-f", "concat", "-safe", "0",
		"-i", listPath,
		"-c", "copy",
		dst,
	}
}

// concatenate writes the list file and joins the ordered clips into dst.
func (a *Assembler) concatenate(ctx context.Context, paths []string, listPath, dst string) error {
	if err := os.WriteFile(listPath, []byte(concatList(paths)), 0o644); err != nil {
		return services.Wrap(services.ErrExternalTool, "concat", "write list", listPath, err)
	}
	return a.engine.Run(ctx, concatArgs(listPath, dst)...)
}
