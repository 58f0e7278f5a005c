package visitor

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	visitors map[string]Visitor
}

// NewMemoryRepository builds an in-memory visitor store for development and
// tests. It enforces the same conditional-write contract as Postgres.
func NewMemoryRepository() Repository {
	return &memoryRepository{visitors: make(map[string]Visitor)}
}

// Seed inserts a visitor record directly, bypassing the version check. Test
// helper mirroring the out-of-band enrollment process.
func Seed(r Repository, v Visitor) {
	if mem, ok := r.(*memoryRepository); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.visitors[v.IdentityKey] = v
	}
}

func (r *memoryRepository) Get(_ context.Context, identityKey string) (Visitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.visitors[identityKey]
	if !ok {
		return Visitor{}, ErrNotFound
	}
	v.Photos = append([]PhotoRecord(nil), v.Photos...)
	return v, nil
}

func (r *memoryRepository) Put(_ context.Context, v Visitor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.visitors[v.IdentityKey]
	if !ok {
		return ErrNotFound
	}
	if current.Version != v.Version {
		return ErrVersionConflict
	}
	v.Version++
	r.visitors[v.IdentityKey] = v
	return nil
}
