package couchbase

import (
	"errors"
	"time"

	"github.com/couchbase/gocb/v2"
)

// --------------------------------------------------------------------------
// Interface Definitions for dependency injection
// --------------------------------------------------------------------------

// kvStore is the narrow view of a document collection the binding operates
// on. The production implementation wraps a gocb collection; tests inject a
// map-backed fake.
type kvStore interface {
	// get fetches a document. A missing document is reported via the loaded
	// flag, not as an error.
	get(id string, timeout time.Duration) (doc map[string]string, loaded bool, err error)

	// insert creates a document and fails if the id already exists.
	insert(id string, doc map[string]string, opts writeOptions) error

	// replace overwrites a document and fails if the id does not exist.
	replace(id string, doc map[string]string, opts writeOptions) error

	// remove deletes a document and fails if the id does not exist.
	remove(id string, opts writeOptions) error

	// close releases all resources held by the store.
	close() error
}

// writeOptions carries the per-operation timeout and the resolved durability
// policy for a single mutation.
type writeOptions struct {
	timeout    time.Duration
	durability durability
}

// connector establishes the connection to the store. The binding holds one
// as a field so tests can swap in a fake without a running cluster.
type connector func(cfg *config) (kvStore, error)

// --------------------------------------------------------------------------
// gocb-backed implementation
// --------------------------------------------------------------------------

// connectCluster dials the configured cluster, waits for the bucket to be
// ready and returns a store over its default collection. Any failure here is
// fatal for Init; there is no retry.
func connectCluster(cfg *config) (kvStore, error) {
	cluster, err := gocb.Connect(cfg.connectionString(), gocb.ClusterOptions{
		Authenticator: gocb.PasswordAuthenticator{
			Username: cfg.username,
			Password: cfg.password,
		},
		TimeoutsConfig: gocb.TimeoutsConfig{
			KVTimeout: cfg.kvTimeout,
		},
	})
	if err != nil {
		return nil, err
	}

	bucket := cluster.Bucket(cfg.bucket)
	if err := bucket.WaitUntilReady(cfg.kvTimeout, nil); err != nil {
		_ = cluster.Close(nil)
		return nil, err
	}

	return &gocbStore{
		cluster:    cluster,
		collection: bucket.DefaultCollection(),
	}, nil
}

type gocbStore struct {
	cluster    *gocb.Cluster
	collection *gocb.Collection
}

func (s *gocbStore) get(id string, timeout time.Duration) (map[string]string, bool, error) {
	res, err := s.collection.Get(id, &gocb.GetOptions{Timeout: timeout})
	if err != nil {
		if errors.Is(err, gocb.ErrDocumentNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var doc map[string]string
	if err := res.Content(&doc); err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (s *gocbStore) insert(id string, doc map[string]string, opts writeOptions) error {
	gocbOpts := &gocb.InsertOptions{Timeout: opts.timeout}
	opts.durability.apply(&gocbOpts.DurabilityLevel, &gocbOpts.PersistTo, &gocbOpts.ReplicateTo)
	_, err := s.collection.Insert(id, doc, gocbOpts)
	return err
}

func (s *gocbStore) replace(id string, doc map[string]string, opts writeOptions) error {
	gocbOpts := &gocb.ReplaceOptions{Timeout: opts.timeout}
	opts.durability.apply(&gocbOpts.DurabilityLevel, &gocbOpts.PersistTo, &gocbOpts.ReplicateTo)
	_, err := s.collection.Replace(id, doc, gocbOpts)
	return err
}

func (s *gocbStore) remove(id string, opts writeOptions) error {
	gocbOpts := &gocb.RemoveOptions{Timeout: opts.timeout}
	opts.durability.apply(&gocbOpts.DurabilityLevel, &gocbOpts.PersistTo, &gocbOpts.ReplicateTo)
	_, err := s.collection.Remove(id, gocbOpts)
	return err
}

func (s *gocbStore) close() error {
	return s.cluster.Close(nil)
}
