// Package render implements the composition and timing engine: conforming
// each source clip to its slot on the output timeline, stitching the clips,
// encoding subtitle cues, building the layered filter graph for overlays and
// subtitle burn-in, and assembling the final transcode invocation.
//
// Execution is strictly sequential. Every external operation is a blocking
// call against the transcoding engine, and any failure aborts the whole job
// with no retry and no partial output.
package render
