// Package config loads and validates the application configuration: tool
// binaries, workspace placement, render behaviour, and logging. Job-specific
// inputs never live here; they arrive in the job description document.
package config
