// Package harness defines the uniform CRUD contract between a benchmark
// driver and the pluggable store bindings that implement it.
//
// The package focuses on:
//   - A unified interface (Binding) for record operations across different backends
//   - A minimal, four-valued Status vocabulary for operation outcomes
//   - A plain Properties mapping for backend configuration
//
// Key Components:
//
//   - Binding Interface: The core abstraction defining init/cleanup lifecycle
//     and the read/insert/update/delete/scan operations. All implementations
//     share this common interface, allowing a driver to switch between
//     backends without code changes. Operations never return errors; every
//     failure is collapsed into StatusError so the caller sees exactly one
//     vocabulary regardless of the backend.
//
//   - Status Codes: OK, NOT_FOUND, ERROR and NOT_IMPLEMENTED. NOT_FOUND is a
//     legitimate read outcome, not an error. ERROR intentionally hides the
//     cause: callers cannot distinguish a timeout from a conflict from a
//     network failure.
//
//   - Properties: A string-to-string configuration mapping with typed
//     accessors. Integer accessors fail on non-numeric values so that broken
//     configuration surfaces at Init instead of producing silent defaults.
//
//   - Instrument: An optional wrapper that records per-operation latency
//     timers and per-status counters without changing binding semantics.
//
// Implementations:
//
//	The module ships two implementations of the Binding interface:
//
//	- Couchbase Binding (lib/binding/couchbase): drives a Couchbase cluster
//	  through the official SDK with configurable durability and timeouts.
//
//	- Memory Binding (lib/binding/memory): a process-local map-backed
//	  implementation with identical status semantics, used for local testing
//	  and as a baseline backend.
package harness
