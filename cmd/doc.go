// Package cmd implements the command-line interface for benchkv. It provides
// a hierarchical command structure for driving record operations and
// performance tests against a selectable store binding.
//
// The package is organized into several subpackages:
//
//   - ops: Commands for record operations (read, insert, update, delete, scan)
//     and the perf testing tool
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See benchkv -help for a list of all commands.
package cmd
