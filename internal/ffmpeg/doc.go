// Package ffmpeg invokes the ffmpeg binary to burn a compiled subtitle
// document into a source video, translating its machine-readable progress
// output into an event stream the job manager consumes.
package ffmpeg
