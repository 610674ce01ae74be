// Package paths provides centralized path handling for ccstart.
//
// Every filesystem location ccstart touches is derived here once and passed
// to components through the Paths interface, so tests can point the whole
// program at a temporary directory.
//
// # Layout
//
//	<base_dir>/config.json       document source (json mode)
//	<base_dir>/cc-switch.db      relational source (sqlite mode)
//	<base_dir>/separated/        one config-<token>.json per provider
//
// The base directory defaults to ~/.cc-switch.
//
// # Environment Variables
//
//   - CCSTART_BASE_DIR: override the base directory
//   - CCSTART_CONFIG_DIR: override $XDG_CONFIG_HOME/ccstart
//   - CCSTART_STATE_DIR: override $XDG_STATE_HOME/ccstart (log file)
//
// Only "~" and "~/..." are expanded; "~user/..." is left untouched.
package paths
