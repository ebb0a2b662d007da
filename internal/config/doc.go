// Package config loads, normalizes, and validates the TOML configuration
// shared by the daemon and the CLI client.
package config
