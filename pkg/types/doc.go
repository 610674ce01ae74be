// Package types defines the core types and interfaces used throughout ccstart.
// This includes the provider record shape shared by every source, the
// materialized entry produced for each provider, and the filesystem and
// source interfaces that components are built against.
package types
