// Package cache maintains the directory of materialized provider settings
// files.
//
// Each provider is stored as config-<token>.json where token is the
// percent-encoded provider name (see pkg/codec). Writes go through a sibling
// temporary file that is synced and renamed over the target, so a reader
// never observes a partially written file. EnsureCached rewrites a file only
// when its SHA-256 differs from the freshly serialized content.
package cache
