// Package testing provides a reusable conformance test suite for
// implementations of the harness.Binding interface.
//
// Every binding is expected to expose the same status semantics regardless
// of its backend: OK/NOT_FOUND/ERROR/NOT_IMPLEMENTED, error collapsing for
// conflicting or missing records, field projection on read, idempotent and
// restartable lifecycle, and exactly-once connection creation under
// concurrent Init calls. Running RunBindingTests against a backend verifies
// all of this without the backend needing its own copy of the suite.
//
// Usage Example:
//
//	func Test(t *testing.T) {
//		bindingtesting.RunBindingTests(t, "Memory", func() harness.Binding {
//			return memory.NewBinding(harness.Properties{})
//		})
//	}
package testing
