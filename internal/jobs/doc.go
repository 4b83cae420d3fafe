// Package jobs owns burn-in export job records and the pipeline that drives
// them: probe the input, compile the subtitle document, invoke the
// transcoder, and fold its progress events into the stored record. Job
// records are mutated only here; other components report back through
// return values and event channels.
package jobs
