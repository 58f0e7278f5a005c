package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps objects in a map. Used in development without S3 and as
// the test double; it also records write order so tests can assert on the
// exact keys touched.
type MemoryStore struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string][]byte
	writes  []string
}

// NewMemoryStore builds an in-memory object store labelled with bucket.
func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{bucket: bucket, objects: make(map[string][]byte)}
}

// Put stores the image under key, overwriting any prior value.
func (s *MemoryStore) Put(_ context.Context, key string, body []byte) (ObjectRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(body))
	copy(stored, body)
	s.objects[key] = stored
	s.writes = append(s.writes, key)

	return ObjectRef{Bucket: s.bucket, Key: key}, nil
}

// Get returns the stored object and whether it exists.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	body, ok := s.objects[key]
	return body, ok
}

// Writes returns every key written, in order.
func (s *MemoryStore) Writes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.writes))
	copy(out, s.writes)
	return out
}
