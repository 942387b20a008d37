// Package fetch retrieves job sources to local files inside the workspace.
//
// Remote http(s) locators are downloaded with a per-request timeout; bare
// paths are treated as local files and copied, which keeps fixtures and
// pre-staged media usable without a serving layer.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"montage/internal/fileutil"
	"montage/internal/services"
)

const defaultTimeout = 60 * time.Second

// Fetcher resolves source locators into local files.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout overrides the per-fetch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.client.Timeout = timeout
		}
	}
}

// WithLogger attaches a logger for download progress diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New constructs a Fetcher with defaults.
func New(opts ...Option) *Fetcher {
	fetcher := &Fetcher{client: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(fetcher)
	}
	return fetcher
}

// Fetch materializes source at dst. Any failure is fatal to the job.
func (f *Fetcher) Fetch(ctx context.Context, source, dst string) error {
	source = strings.TrimSpace(source)
	if source == "" {
		return services.Wrap(services.ErrFetch, "fetch", "resolve", "empty source locator", nil)
	}

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return f.download(ctx, source, dst)
	}
	return f.copyLocal(source, dst)
}

func (f *Fetcher) download(ctx context.Context, url, dst string) error {
	if f.logger != nil {
		f.logger.Info("downloading source", "url", stripQuery(url), "dest", filepath.Base(dst))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return services.Wrap(services.ErrFetch, "fetch", "request", url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrFetch, "fetch", "download", stripQuery(url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return services.Wrap(services.ErrFetch, "fetch", "download",
			fmt.Sprintf("%s: unexpected status %s", stripQuery(url), resp.Status), nil)
	}

	if dir := filepath.Dir(dst); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return services.Wrap(services.ErrFetch, "fetch", "prepare", dst, err)
		}
	}
	out, err := os.Create(dst)
	if err != nil {
		return services.Wrap(services.ErrFetch, "fetch", "create", dst, err)
	}
	defer out.Close()

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		return services.Wrap(services.ErrFetch, "fetch", "write", dst, err)
	}
	if err := out.Close(); err != nil {
		return services.Wrap(services.ErrFetch, "fetch", "close", dst, err)
	}

	if f.logger != nil {
		f.logger.Debug("download complete", "dest", filepath.Base(dst), "bytes", written)
	}
	return nil
}

func (f *Fetcher) copyLocal(source, dst string) error {
	if !fileutil.IsRegularFile(source) {
		return services.Wrap(services.ErrFetch, "fetch", "local", fmt.Sprintf("%s: not a readable file", source), nil)
	}
	if f.logger != nil {
		f.logger.Info("copying local source", "path", source, "dest", filepath.Base(dst))
	}
	if err := fileutil.CopyFile(source, dst); err != nil {
		return services.Wrap(services.ErrFetch, "fetch", "local", source, err)
	}
	return nil
}

// stripQuery drops signed query strings from logged URLs.
func stripQuery(url string) string {
	if idx := strings.IndexByte(url, '?'); idx >= 0 {
		return url[:idx]
	}
	return url
}
