// Package config handles configuration management for ccstart.
// It layers embedded defaults, the user's config file, CCSTART_* environment
// variables and command-line flag overrides, in that order.
package config
