// Package preflight runs environment checks before a render: engine binary
// availability, workspace directory access, and free disk space. Checks only
// report; deciding whether a failed check blocks the run is the CLI's call.
package preflight
