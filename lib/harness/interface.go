package harness

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// BindingFactory is a function type that creates a new binding from resolved
// properties. This is used to abstract the creation of a binding from its
// implementation so backends can be selected by name at runtime.
type BindingFactory func(props Properties) Binding

// Binding is the generic interface a benchmark driver uses to talk to a
// backing store. All operations are keyed by a logical table name and record
// key; record fields are flat string-to-string mappings end to end.
//
// Init and Cleanup manage the connection lifecycle and are safe to call from
// multiple goroutines. The CRUD operations must be safe for concurrent use
// once Init has returned; they report their outcome only through a Status
// value and never through an error or panic.
type Binding interface {
	// Init prepares the binding for use. It is idempotent: the first call
	// establishes the connection, subsequent calls while the connection is
	// live are no-ops. A configuration or connection failure is returned as
	// an error and leaves the binding unusable.
	Init() error
	// Cleanup releases the connection. It is idempotent and a no-op when no
	// connection is live. After Cleanup, Init may be called again.
	Cleanup() error
	// Read fetches the record and returns the requested fields. An empty or
	// nil field list selects all fields of the stored record.
	Read(table, key string, fields []string) (Status, map[string]string)
	// Insert creates a new record. Inserting an already existing record is a
	// failure reported as StatusError.
	Insert(table, key string, values map[string]string) Status
	// Update replaces an existing record. Updating a missing record is a
	// failure reported as StatusError.
	Update(table, key string, values map[string]string) Status
	// Delete removes a record. Deleting a missing record is a failure
	// reported as StatusError.
	Delete(table, key string) Status
	// Scan reads recordCount records starting at startKey. Bindings that do
	// not support range scans return StatusNotImplemented.
	Scan(table, startKey string, recordCount int, fields []string) Status
}

// --------------------------------------------------------------------------
// Status Codes
// --------------------------------------------------------------------------

// Status is the complete outcome vocabulary a binding exposes to its caller.
// It deliberately carries no diagnostic detail: a timeout, a write conflict
// and a network failure all collapse to StatusError.
type Status uint64

const (
	StatusOK             Status = iota // 0: Operation completed successfully.
	StatusNotFound                     // 1: Record does not exist (read only).
	StatusError                        // 2: Operation failed for any reason.
	StatusNotImplemented               // 3: Operation is not supported by the binding.
)

// String implements the fmt.Stringer interface.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusNotFound:
		return "NOT_FOUND"
	case StatusError:
		return "ERROR"
	case StatusNotImplemented:
		return "NOT_IMPLEMENTED"
	default:
		return fmt.Sprintf("Status(%d)", uint64(s))
	}
}
