package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"

	"montage/internal/services"
)

var commandContext = exec.CommandContext

// Client defines transcoding engine behaviour.
type Client interface {
	Run(ctx context.Context, args ...string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if strings.TrimSpace(binary) != "" {
			c.binary = binary
		}
	}
}

// WithLogger attaches a logger used to echo each invocation.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CLI) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// CLI wraps the ffmpeg command-line transcoder.
type CLI struct {
	binary string
	logger *slog.Logger
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Run launches one ffmpeg invocation with the fully-specified argument list.
// Success is the process's zero exit code; any non-zero exit surfaces as an
// external tool error carrying the captured stderr tail.
func (c *CLI) Run(ctx context.Context, args ...string) error {
	if len(args) == 0 {
		return errors.New("ffmpeg run: empty argument list")
	}

	if c.logger != nil {
		c.logger.Info("running engine", "binary", c.binary, "args", strings.Join(args, " "))
	}

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "run", strings.TrimSpace(stderr.String()), err)
	}
	return nil
}

var _ Client = (*CLI)(nil)
