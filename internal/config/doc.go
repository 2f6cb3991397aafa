// Package config loads and validates the TOML configuration file, applying
// defaults, tilde expansion, and range checks before anything else starts.
package config
