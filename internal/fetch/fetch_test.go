package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"montage/internal/services"
)

func TestFetchDownloadsRemoteSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("media-bytes"))
	}))
	t.Cleanup(server.Close)

	dst := filepath.Join(t.TempDir(), "clip.mp4")
	fetcher := New()
	if err := fetcher.Fetch(context.Background(), server.URL+"/clip.mp4?sig=abc", dst); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "media-bytes" {
		t.Fatalf("unexpected payload %q", data)
	}
}

func TestFetchRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	fetcher := New()
	err := fetcher.Fetch(context.Background(), server.URL+"/missing.mp4", filepath.Join(t.TempDir(), "out"))
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestFetchCopiesLocalSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "local.mp4")
	if err := os.WriteFile(src, []byte("local"), 0o644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "work", "copy.mp4")
	fetcher := New()
	if err := fetcher.Fetch(context.Background(), src, dst); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "local" {
		t.Fatalf("unexpected payload %q", data)
	}
}

func TestFetchMissingLocalSource(t *testing.T) {
	fetcher := New()
	err := fetcher.Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"), filepath.Join(t.TempDir(), "out"))
	if !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestFetchEmptySource(t *testing.T) {
	fetcher := New()
	if err := fetcher.Fetch(context.Background(), "  ", "out"); !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}
