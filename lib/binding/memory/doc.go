// Package memory implements the harness.Binding interface with a
// process-local concurrent map. It exposes exactly the same status
// semantics as the couchbase binding (ERROR on conflicting inserts and on
// updates or deletes of missing records, NOT_FOUND only for reads,
// NOT_IMPLEMENTED for scan) so it can stand in for the real backend in
// tests and local runs.
package memory
