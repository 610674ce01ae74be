// Package testutil provides utilities for testing ccstart components.
//
// Key components:
//   - TestEnvironment: isolated home, base and XDG directories with the
//     process environment pointed at them
//   - MemoryFS: in-memory types.FS with per-operation fault injection, used
//     to simulate interrupted writes
//   - Document and database fixture builders for the two provider sources
//
// All test data should be defined inline, not in external files.
package testutil
