// Package commands provides the command flows behind the ccstart CLI.
//
// Each command is implemented in its own subdirectory:
//   - run/        - resolve a provider, materialize it and launch the program
//   - list/       - names currently materialized
//   - update/     - force-rewrite every provider file and drop stale ones
//   - sync/       - rewrite only what changed and report per-file outcomes
//   - initialize/ - bootstrap the materialized directory from config.json
//   - genconfig/  - effective configuration and config file template
//
// This package holds what the flows share: the Env dependency bundle and
// provider name completion.
package commands
