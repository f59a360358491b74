// Package config loads and validates application configuration.
//
// Configuration layers, later layers winning: built-in defaults, an
// optional config.yaml, then INVTIER_* environment variables. The
// resulting struct is validated before use. The package also owns path
// resolution: every file the tools read or write resolves through
// Paths so the directory layout is defined in exactly one place.
package config
