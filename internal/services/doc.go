// Package services defines the shared error taxonomy used across the
// pipeline and its transport surfaces.
package services
