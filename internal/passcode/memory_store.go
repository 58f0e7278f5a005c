package passcode

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryStore struct {
	mu    sync.RWMutex
	codes map[string][]Passcode
}

// NewMemoryStore builds an in-memory passcode store for development and
// tests. Expiry is enforced on read.
func NewMemoryStore() Store {
	return &memoryStore{codes: make(map[string][]Passcode)}
}

func (s *memoryStore) Put(_ context.Context, p Passcode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[p.PhoneNumber] = append(s.codes[p.PhoneNumber], p)
	return nil
}

func (s *memoryStore) Active(_ context.Context, phoneNumber string) ([]Passcode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now().UTC()
	var out []Passcode
	for _, p := range s.codes[phoneNumber] {
		if !p.Expired(now) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.After(out[j].IssuedAt) })
	return out, nil
}
