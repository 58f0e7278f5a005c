package faces

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/smart-door/smart_door/internal/event"
	"github.com/smart-door/smart_door/internal/storage"
)

// MemoryDirectory is an in-memory face directory for development and tests.
// Matching is exact on image bytes; Enroll records the image as indexed
// under the identity key.
type MemoryDirectory struct {
	mu        sync.RWMutex
	enrolled  map[string]string // image fingerprint -> identity key
	rejectAll bool
	faceIDs   map[string][]string // identity key -> face ids
}

// NewMemoryDirectory builds an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		enrolled: make(map[string]string),
		faceIDs:  make(map[string][]string),
	}
}

// RejectEnrollment makes every subsequent Enroll fail, simulating a capture
// with no detectable face.
func (d *MemoryDirectory) RejectEnrollment() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rejectAll = true
}

// Learn registers image bytes directly under an identity key so tests can
// pre-populate the collection.
func (d *MemoryDirectory) Learn(image []byte, identityKey string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enrolled[string(image)] = identityKey
}

// Match looks the image up among previously learned faces.
func (d *MemoryDirectory) Match(_ context.Context, image []byte) (event.MatchResult, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if key, ok := d.enrolled[string(image)]; ok {
		return event.MatchResult{IdentityKey: key}, nil
	}
	return event.MatchResult{}, nil
}

// Enroll records a face id under the identity key.
func (d *MemoryDirectory) Enroll(_ context.Context, ref storage.ObjectRef, identityKey string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rejectAll {
		return "", ErrEnrollmentFailed
	}

	faceID := uuid.NewString()
	d.faceIDs[identityKey] = append(d.faceIDs[identityKey], faceID)
	d.enrolled[ref.Key] = identityKey
	return faceID, nil
}

// Enrollments returns how many faces are indexed for an identity key.
func (d *MemoryDirectory) Enrollments(identityKey string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.faceIDs[identityKey])
}
