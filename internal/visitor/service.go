package visitor

import (
	"context"
	"fmt"
	"time"
)

// Service owns the ledger update logic. Visitors are created by an
// out-of-band enrollment process and never deleted here; the only mutation
// this service performs is appending photo records.
type Service struct {
	repo Repository
}

// NewService creates a visitor service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get loads the visitor for an identity key.
func (s *Service) Get(ctx context.Context, identityKey string) (Visitor, error) {
	return s.repo.Get(ctx, identityKey)
}

// AppendPhoto appends a photo record to the visitor's history and persists
// the updated record under the conditional-write contract. A version
// conflict is surfaced, not papered over; the capture that lost the race is
// reported to the trigger layer.
func (s *Service) AppendPhoto(ctx context.Context, identityKey string, photo PhotoRecord) (Visitor, error) {
	v, err := s.repo.Get(ctx, identityKey)
	if err != nil {
		return Visitor{}, err
	}

	photo.CreatedAt = photo.CreatedAt.Truncate(time.Second)
	v.Photos = append(v.Photos, photo)

	if err := s.repo.Put(ctx, v); err != nil {
		return Visitor{}, fmt.Errorf("append photo for %s: %w", identityKey, err)
	}

	v.Version++
	return v, nil
}
