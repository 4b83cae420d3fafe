// Package captions derives timed caption segments from raw transcripts and
// defines the segment shape shared across the pipeline.
package captions
