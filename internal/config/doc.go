// Package config loads, defaults, and validates the TOML configuration
// shared by the daemon and the CLI.
package config
