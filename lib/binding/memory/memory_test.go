package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/benchkv/benchkv/lib/harness"
	bindingtesting "github.com/benchkv/benchkv/lib/harness/testing"
)

func Test(t *testing.T) {
	bindingtesting.RunBindingTests(t, "Memory", func() harness.Binding {
		return NewBinding(harness.Properties{})
	})
}

func TestTableNamespacing(t *testing.T) {
	binding := NewBinding(harness.Properties{})
	if err := binding.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer binding.Cleanup()

	if status := binding.Insert("users", "1", map[string]string{"name": "alice"}); status != harness.StatusOK {
		t.Fatalf("insert users/1: %s", status)
	}
	if status := binding.Insert("orders", "1", map[string]string{"total": "10"}); status != harness.StatusOK {
		t.Fatalf("insert orders/1: %s", status)
	}

	status, doc := binding.Read("users", "1", nil)
	if status != harness.StatusOK || doc["name"] != "alice" {
		t.Errorf("read users/1: status=%s doc=%v", status, doc)
	}

	if status := binding.Delete("orders", "1"); status != harness.StatusOK {
		t.Errorf("delete orders/1: %s", status)
	}
	if status, _ := binding.Read("users", "1", nil); status != harness.StatusOK {
		t.Errorf("users/1 must survive deleting orders/1, got %s", status)
	}
}

func TestConcurrentWriters(t *testing.T) {
	binding := NewBinding(harness.Properties{})
	if err := binding.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer binding.Cleanup()

	const writers = 8
	const records = 100

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < records; i++ {
				key := fmt.Sprintf("user-%d-%d", w, i)
				if status := binding.Insert("usertable", key, map[string]string{"n": key}); status != harness.StatusOK {
					t.Errorf("insert %s: %s", key, status)
				}
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < writers; w++ {
		for i := 0; i < records; i++ {
			key := fmt.Sprintf("user-%d-%d", w, i)
			if status, _ := binding.Read("usertable", key, nil); status != harness.StatusOK {
				t.Errorf("read %s: %s", key, status)
			}
		}
	}
}
