// Package media resolves opaque upload identifiers to files on disk and
// inspects input media via ffprobe.
package media
