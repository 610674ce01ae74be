// Package source reads provider records from the cc-switch source of truth.
//
// Two implementations exist. Document reads the config.json file kept by
// older cc-switch releases; SQLite reads the providers table of cc-switch.db
// over a read-only connection. Open picks one from configuration.
package source
