package couchbase

import (
	"sync"
	"sync/atomic"

	"github.com/benchkv/benchkv/lib/harness"
)

var logger = harness.GetLogger("binding/couchbase")

// keySeparator joins table and key into a document id. Callers must not use
// it inside table names or keys, or distinct records may collide on the same
// document id.
const keySeparator = ":"

// NewBinding creates a Couchbase binding from raw properties. Nothing is
// validated or dialed until Init.
func NewBinding(props harness.Properties) harness.Binding {
	return &couchbaseBinding{
		props: props,
		dial:  connectCluster,
	}
}

// conn bundles everything that exists only while the connection is live.
type conn struct {
	cfg   *config
	store kvStore
}

type couchbaseBinding struct {
	props harness.Properties
	dial  connector

	// mu serializes Init and Cleanup. The live connection is published via
	// conn, written only while mu is held and read lock-free by operations.
	mu   sync.Mutex
	conn atomic.Pointer[conn]
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

func (b *couchbaseBinding) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn.Load() != nil {
		return nil
	}

	cfg, err := resolveConfig(b.props)
	if err != nil {
		return err
	}

	store, err := b.dial(cfg)
	if err != nil {
		return err
	}

	logger.Infof("connected to %s (bucket %s, %s)", cfg.host, cfg.bucket, cfg.durability.String())
	b.conn.Store(&conn{cfg: cfg, store: store})
	return nil
}

func (b *couchbaseBinding) Cleanup() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.conn.Load()
	if c == nil {
		return nil
	}

	// reset state first so a future Init can rebuild even if close fails
	b.conn.Store(nil)
	return c.store.close()
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the harness package in interface.go)
// --------------------------------------------------------------------------

func (b *couchbaseBinding) Read(table, key string, fields []string) (harness.Status, map[string]string) {
	c := b.conn.Load()
	if c == nil {
		return harness.StatusError, nil
	}

	doc, loaded, err := c.store.get(FormatID(table, key), c.cfg.kvTimeout)
	if err != nil {
		return harness.StatusError, nil
	}
	if !loaded {
		return harness.StatusNotFound, nil
	}
	return harness.StatusOK, projectFields(doc, fields)
}

func (b *couchbaseBinding) Insert(table, key string, values map[string]string) harness.Status {
	c := b.conn.Load()
	if c == nil {
		return harness.StatusError
	}

	if err := c.store.insert(FormatID(table, key), encode(values), c.writeOptions()); err != nil {
		return harness.StatusError
	}
	return harness.StatusOK
}

func (b *couchbaseBinding) Update(table, key string, values map[string]string) harness.Status {
	c := b.conn.Load()
	if c == nil {
		return harness.StatusError
	}

	if err := c.store.replace(FormatID(table, key), encode(values), c.writeOptions()); err != nil {
		return harness.StatusError
	}
	return harness.StatusOK
}

func (b *couchbaseBinding) Delete(table, key string) harness.Status {
	c := b.conn.Load()
	if c == nil {
		return harness.StatusError
	}

	if err := c.store.remove(FormatID(table, key), c.writeOptions()); err != nil {
		return harness.StatusError
	}
	return harness.StatusOK
}

// Scan is deliberately not implemented for this binding.
func (b *couchbaseBinding) Scan(table, startKey string, recordCount int, fields []string) harness.Status {
	return harness.StatusNotImplemented
}

func (c *conn) writeOptions() writeOptions {
	return writeOptions{
		timeout:    c.cfg.kvTimeout,
		durability: c.cfg.durability,
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// FormatID derives the store-level document id from the logical table and
// key. It is deterministic and used identically by all operations, so the
// same logical record always maps to the same document.
func FormatID(table, key string) string {
	return table + keySeparator + key
}

// projectFields restricts a document to the requested fields. An empty or
// nil request selects every stored field. A requested field that is absent
// from the document is omitted from the result.
func projectFields(doc map[string]string, fields []string) map[string]string {
	result := make(map[string]string, len(doc))
	if len(fields) == 0 {
		for field, value := range doc {
			result[field] = value
		}
		return result
	}

	for _, field := range fields {
		if value, ok := doc[field]; ok {
			result[field] = value
		}
	}
	return result
}

// encode copies the caller's values into the flat string document handed to
// the store, so later mutations of the input map cannot leak into the write.
func encode(values map[string]string) map[string]string {
	doc := make(map[string]string, len(values))
	for field, value := range values {
		doc[field] = value
	}
	return doc
}
