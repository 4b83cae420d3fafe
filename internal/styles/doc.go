// Package styles defines the canonical nested caption style schema, the
// built-in presets, translation from the legacy flat shape, and validation
// and normalization of incoming style payloads.
package styles
