package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"montage/internal/config"
	"montage/internal/fetch"
	"montage/internal/jobspec"
	"montage/internal/logging"
	"montage/internal/media/ffprobe"
	"montage/internal/render"
	"montage/internal/services/ffmpeg"
	"montage/internal/workspace"
)

func newRenderCommand(configFlag *string) *cobra.Command {
	var keepWorkspace bool

	cmd := &cobra.Command{
		Use:   "render <job.json> <output.mp4>",
		Short: "Run one render job and write the output artifact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			keepSet := cmd.Flags().Changed("keep-workspace")
			return runRender(cmd.Context(), *configFlag, args[0], args[1], keepWorkspace, keepSet)
		},
	}
	cmd.Flags().BoolVar(&keepWorkspace, "keep-workspace", false, "Retain the job workspace after the run")
	return cmd
}

func runRender(ctx context.Context, configPath, jobPath, outputPath string, keepFlag, keepSet bool) error {
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	job, err := jobspec.Load(jobPath)
	if err != nil {
		return err
	}
	output, err := filepath.Abs(outputPath)
	if err != nil {
		return err
	}

	keep := cfg.Render.KeepWorkspace
	if keepSet {
		keep = keepFlag
	}
	ws, err := workspace.Open(cfg.Paths.WorkspaceDir, "montage_",
		workspace.WithKeep(keep),
		workspace.WithLogger(logger.With("component", "workspace")),
	)
	if err != nil {
		return err
	}
	defer func() { _ = ws.Close() }()

	engine := ffmpeg.NewCLI(
		ffmpeg.WithBinary(cfg.Tools.FFmpeg),
		ffmpeg.WithLogger(logger.With("component", "ffmpeg")),
	)
	probe := ffprobe.NewClient(cfg.Tools.FFprobe)
	fetcher := fetch.New(
		fetch.WithTimeout(time.Duration(cfg.Render.DownloadTimeout)*time.Second),
		fetch.WithLogger(logger.With("component", "fetch")),
	)
	assembler := render.NewAssembler(engine, probe, fetcher,
		render.WithLogger(logger.With("component", "render")),
	)

	logger.Info("starting job", "job", jobPath, "workspace", ws.Dir())
	if err := assembler.Run(ctx, job, ws, output); err != nil {
		return err
	}
	logger.Info("job complete", "output", output)
	return nil
}
