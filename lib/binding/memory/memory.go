package memory

import (
	"sync"
	"sync/atomic"

	"github.com/benchkv/benchkv/lib/harness"
	"github.com/puzpuzpuz/xsync/v3"
)

// keySeparator joins table and key into the map key, mirroring the document
// id scheme of the couchbase binding.
const keySeparator = ":"

// NewBinding creates a process-local, map-backed binding. It accepts the
// same property mapping as every other binding but needs none of it; records
// vanish when the process exits.
func NewBinding(_ harness.Properties) harness.Binding {
	return &memoryBinding{}
}

type memoryBinding struct {
	// mu serializes Init and Cleanup; docs is written only while mu is held
	// and read lock-free by operations.
	mu   sync.Mutex
	docs atomic.Pointer[xsync.MapOf[string, map[string]string]]
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

func (b *memoryBinding) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.docs.Load() == nil {
		b.docs.Store(xsync.NewMapOf[string, map[string]string]())
	}
	return nil
}

func (b *memoryBinding) Cleanup() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.docs.Store(nil)
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the harness package in interface.go)
// --------------------------------------------------------------------------

func (b *memoryBinding) Read(table, key string, fields []string) (harness.Status, map[string]string) {
	docs := b.docs.Load()
	if docs == nil {
		return harness.StatusError, nil
	}

	doc, ok := docs.Load(table + keySeparator + key)
	if !ok {
		return harness.StatusNotFound, nil
	}

	result := make(map[string]string, len(doc))
	if len(fields) == 0 {
		for field, value := range doc {
			result[field] = value
		}
		return harness.StatusOK, result
	}
	for _, field := range fields {
		if value, ok := doc[field]; ok {
			result[field] = value
		}
	}
	return harness.StatusOK, result
}

func (b *memoryBinding) Insert(table, key string, values map[string]string) harness.Status {
	docs := b.docs.Load()
	if docs == nil {
		return harness.StatusError
	}

	if _, loaded := docs.LoadOrStore(table+keySeparator+key, copyValues(values)); loaded {
		// the record already exists, same collapse as a store-side conflict
		return harness.StatusError
	}
	return harness.StatusOK
}

func (b *memoryBinding) Update(table, key string, values map[string]string) harness.Status {
	docs := b.docs.Load()
	if docs == nil {
		return harness.StatusError
	}

	replaced := false
	docs.Compute(table+keySeparator+key, func(old map[string]string, loaded bool) (map[string]string, bool) {
		if !loaded {
			// keep the record absent, an update never creates it
			return nil, true
		}
		replaced = true
		return copyValues(values), false
	})

	if !replaced {
		return harness.StatusError
	}
	return harness.StatusOK
}

func (b *memoryBinding) Delete(table, key string) harness.Status {
	docs := b.docs.Load()
	if docs == nil {
		return harness.StatusError
	}

	if _, loaded := docs.LoadAndDelete(table + keySeparator + key); !loaded {
		return harness.StatusError
	}
	return harness.StatusOK
}

// Scan is not implemented; the map holds no key ordering to scan over.
func (b *memoryBinding) Scan(table, startKey string, recordCount int, fields []string) harness.Status {
	return harness.StatusNotImplemented
}

func copyValues(values map[string]string) map[string]string {
	doc := make(map[string]string, len(values))
	for field, value := range values {
		doc[field] = value
	}
	return doc
}
