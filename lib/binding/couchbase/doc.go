// Package couchbase implements the harness.Binding interface on top of a
// Couchbase cluster using the official Go SDK.
//
// Each logical record (table, key) is stored as a flat JSON object mapping
// field names to string values, addressed by the document id
// "table:key". All operations run against the default collection of the
// configured bucket.
//
// Configuration is a plain property mapping resolved once at Init:
//
//	host             store endpoint                 (default 127.0.0.1)
//	bucket           bucket name                    (default ycsb)
//	username         cluster username               (default Administrator)
//	password         cluster password               (default password)
//	kvTimeoutMillis  per-operation timeout          (default 10000)
//	kvEndpoints      kv connections per node        (default 1)
//	durability       durability level 0-3; its presence switches the binding
//	                 to level mode and the legacy keys below are ignored
//	persistTo        legacy persist count 0-4       (default 0)
//	replicateTo      legacy replicate count 0-3     (default 0)
//
// Durability levels map 0..3 to none, majority,
// majority-and-persist-on-master and persist-to-majority.
//
// Outcome semantics follow the harness contract: a read of a missing
// document is NOT_FOUND; every other failure of any operation, including
// timeouts, write conflicts and unmet durability requirements, collapses to
// ERROR without further detail. Scan is a deliberate NOT_IMPLEMENTED stub.
//
// The connection is created lazily by the first Init call and shared by all
// goroutines; Init and Cleanup are idempotent and mutually exclusive, and
// the binding can be re-initialized after Cleanup.
package couchbase
