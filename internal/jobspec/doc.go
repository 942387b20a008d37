// Package jobspec models the declarative job description that drives a
// render: the clip timeline, optional narration parts, overlay windows,
// subtitle cues, and the required output parameters.
//
// All entities are constructed once when the JSON document is parsed and are
// immutable afterwards. Tolerant input handling (alternate subtitle text
// keys, defaulted cue ends) is resolved here at parse time so the pipeline
// never branches on schema variations.
package jobspec
