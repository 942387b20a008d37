// Package services defines shared utilities consumed by the render pipeline
// and the external engine integrations.
//
// It provides the structured error markers plus the Wrap helper that tag
// failures with their origin (fetch, probe, transform, validation) so the CLI
// can report which step of a job aborted the run.
package services
