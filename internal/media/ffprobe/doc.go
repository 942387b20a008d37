// Package ffprobe inspects media files with the external ffprobe binary.
//
// The render pipeline only needs container-level duration, but the full
// format/stream decode is kept so callers can sanity-check stream layouts
// without a second process launch.
package ffprobe
