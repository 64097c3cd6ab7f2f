package testing

import (
	"fmt"
	"sync"
	"testing"

	"github.com/benchkv/benchkv/lib/harness"
)

// BindingFactory is a function that creates a new, uninitialized instance of
// a harness.Binding implementation.
type BindingFactory func() harness.Binding

// RunBindingTests runs a conformance test suite for a Binding implementation.
// The factory must return a fresh binding for every call; the suite calls
// Init and Cleanup itself.
func RunBindingTests(t *testing.T, name string, factory BindingFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("InsertRead", func(t *testing.T) {
			testInsertRead(t, factory())
		})

		t.Run("ReadMissing", func(t *testing.T) {
			testReadMissing(t, factory())
		})

		t.Run("Projection", func(t *testing.T) {
			testProjection(t, factory())
		})

		t.Run("InsertExisting", func(t *testing.T) {
			testInsertExisting(t, factory())
		})

		t.Run("Update", func(t *testing.T) {
			testUpdate(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("Scan", func(t *testing.T) {
			testScan(t, factory())
		})

		t.Run("ValueIsolation", func(t *testing.T) {
			testValueIsolation(t, factory())
		})

		t.Run("ConcurrentInit", func(t *testing.T) {
			testConcurrentInit(t, factory())
		})

		t.Run("CleanupIdempotent", func(t *testing.T) {
			testCleanupIdempotent(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func mustInit(t *testing.T, binding harness.Binding) {
	t.Helper()
	if err := binding.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
}

func expectStatus(t *testing.T, op string, got, want harness.Status) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected status %s, got %s", op, want, got)
	}
}

func expectFields(t *testing.T, got, want map[string]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("expected %d fields, got %d (%v)", len(want), len(got), got)
		return
	}
	for field, value := range want {
		if got[field] != value {
			t.Errorf("field %s: expected %q, got %q", field, value, got[field])
		}
	}
}

func testRecord() map[string]string {
	return map[string]string{
		"field0": "value0",
		"field1": "value1",
		"field2": "value2",
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testInsertRead(t *testing.T, binding harness.Binding) {
	mustInit(t, binding)
	defer binding.Cleanup()

	values := testRecord()
	expectStatus(t, "insert", binding.Insert("usertable", "user1", values), harness.StatusOK)

	status, result := binding.Read("usertable", "user1", nil)
	expectStatus(t, "read", status, harness.StatusOK)
	expectFields(t, result, values)
}

func testReadMissing(t *testing.T, binding harness.Binding) {
	mustInit(t, binding)
	defer binding.Cleanup()

	status, result := binding.Read("usertable", "never-inserted", nil)
	expectStatus(t, "read", status, harness.StatusNotFound)
	if len(result) != 0 {
		t.Errorf("expected no fields for a missing record, got %v", result)
	}
}

func testProjection(t *testing.T, binding harness.Binding) {
	mustInit(t, binding)
	defer binding.Cleanup()

	expectStatus(t, "insert", binding.Insert("usertable", "user1", testRecord()), harness.StatusOK)

	// subset of fields
	status, result := binding.Read("usertable", "user1", []string{"field0", "field2"})
	expectStatus(t, "read", status, harness.StatusOK)
	expectFields(t, result, map[string]string{"field0": "value0", "field2": "value2"})

	// a requested field that was never stored is omitted from the result
	status, result = binding.Read("usertable", "user1", []string{"field1", "missing"})
	expectStatus(t, "read", status, harness.StatusOK)
	expectFields(t, result, map[string]string{"field1": "value1"})

	// an empty (non-nil) field list selects everything
	status, result = binding.Read("usertable", "user1", []string{})
	expectStatus(t, "read", status, harness.StatusOK)
	expectFields(t, result, testRecord())
}

func testInsertExisting(t *testing.T, binding harness.Binding) {
	mustInit(t, binding)
	defer binding.Cleanup()

	expectStatus(t, "insert", binding.Insert("usertable", "user1", testRecord()), harness.StatusOK)
	expectStatus(t, "insert existing", binding.Insert("usertable", "user1", testRecord()), harness.StatusError)
}

func testUpdate(t *testing.T, binding harness.Binding) {
	mustInit(t, binding)
	defer binding.Cleanup()

	expectStatus(t, "update missing", binding.Update("usertable", "user1", testRecord()), harness.StatusError)

	expectStatus(t, "insert", binding.Insert("usertable", "user1", testRecord()), harness.StatusOK)

	updated := map[string]string{"field0": "changed"}
	expectStatus(t, "update", binding.Update("usertable", "user1", updated), harness.StatusOK)

	status, result := binding.Read("usertable", "user1", nil)
	expectStatus(t, "read", status, harness.StatusOK)
	expectFields(t, result, updated)
}

func testDelete(t *testing.T, binding harness.Binding) {
	mustInit(t, binding)
	defer binding.Cleanup()

	expectStatus(t, "delete missing", binding.Delete("usertable", "user1"), harness.StatusError)

	expectStatus(t, "insert", binding.Insert("usertable", "user1", testRecord()), harness.StatusOK)
	expectStatus(t, "delete", binding.Delete("usertable", "user1"), harness.StatusOK)

	status, _ := binding.Read("usertable", "user1", nil)
	expectStatus(t, "read after delete", status, harness.StatusNotFound)

	expectStatus(t, "delete again", binding.Delete("usertable", "user1"), harness.StatusError)
}

func testScan(t *testing.T, binding harness.Binding) {
	mustInit(t, binding)
	defer binding.Cleanup()

	expectStatus(t, "scan", binding.Scan("usertable", "user0", 10, nil), harness.StatusNotImplemented)
	expectStatus(t, "scan empty", binding.Scan("", "", 0, []string{"field0"}), harness.StatusNotImplemented)
}

func testValueIsolation(t *testing.T, binding harness.Binding) {
	mustInit(t, binding)
	defer binding.Cleanup()

	values := testRecord()
	expectStatus(t, "insert", binding.Insert("usertable", "user1", values), harness.StatusOK)

	// mutating the caller's map after insert must not affect the stored record
	values["field0"] = "mutated"

	status, result := binding.Read("usertable", "user1", nil)
	expectStatus(t, "read", status, harness.StatusOK)
	expectFields(t, result, testRecord())

	// mutating a returned projection must not affect the stored record
	result["field1"] = "mutated"

	status, result = binding.Read("usertable", "user1", nil)
	expectStatus(t, "read", status, harness.StatusOK)
	expectFields(t, result, testRecord())
}

func testConcurrentInit(t *testing.T, binding harness.Binding) {
	const callers = 16

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs[n] = binding.Init()
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent Init %d failed: %v", i, err)
		}
	}
	defer binding.Cleanup()

	// every caller observes a ready connection afterwards
	for i := 0; i < callers; i++ {
		key := fmt.Sprintf("user%d", i)
		expectStatus(t, "insert after init", binding.Insert("usertable", key, testRecord()), harness.StatusOK)
	}
}

func testCleanupIdempotent(t *testing.T, binding harness.Binding) {
	// cleanup with no live connection is a no-op
	if err := binding.Cleanup(); err != nil {
		t.Fatalf("Cleanup without Init failed: %v", err)
	}

	mustInit(t, binding)

	if err := binding.Cleanup(); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if err := binding.Cleanup(); err != nil {
		t.Fatalf("second Cleanup failed: %v", err)
	}

	// the lifecycle must be restartable after cleanup
	mustInit(t, binding)
	defer binding.Cleanup()
	expectStatus(t, "insert after re-init", binding.Insert("usertable", "user1", testRecord()), harness.StatusOK)
}
