// Package ffmpeg wraps the external ffmpeg binary behind a small client so
// the render pipeline can launch transcodes without caring where the binary
// lives. Tests swap the command constructor to avoid executing the real
// engine while still exercising invocation behaviour.
package ffmpeg
