package config

// Default returns the baseline configuration applied before any file values.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: "",
			LogDir:       "",
		},
		Tools: Tools{
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
		},
		Render: Render{
			KeepWorkspace:   false,
			DownloadTimeout: 60,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
