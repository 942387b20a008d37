package preflight

import (
	"os"

	"montage/internal/config"
	"montage/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// minFreeBytes is the free-space floor for the workspace volume. Conformed
// intermediates are re-encoded, so a job can need several times its source
// footprint.
const minFreeBytes = 1 << 30

// RunAll executes all preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	for _, status := range deps.CheckBinaries([]deps.Requirement{
		{Name: "FFmpeg", Command: cfg.Tools.FFmpeg, Description: "Required for transcoding"},
		{Name: "FFprobe", Command: cfg.Tools.FFprobe, Description: "Required for media inspection"},
	}) {
		detail := status.Command
		if !status.Available {
			detail = status.Detail
		}
		results = append(results, Result{Name: status.Name, Passed: status.Available, Detail: detail})
	}

	workspaceParent := cfg.Paths.WorkspaceDir
	if workspaceParent == "" {
		workspaceParent = os.TempDir()
	}
	results = append(results, CheckDirectoryAccess("Workspace directory", workspaceParent))
	results = append(results, CheckDiskSpace("Workspace free space", workspaceParent, minFreeBytes))

	return results
}
