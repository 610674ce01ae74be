// Package filesystem provides filesystem implementations for ccstart.
//
// This package contains the OS-backed implementation of the types.FS
// interface. Tests wrap it to inject failures.
package filesystem
