// Package daemon ties the HTTP surface, job manager, and reaper into a
// single lifecycle with flock-based locking to prevent multiple instances
// from serving the same directories.
package daemon
