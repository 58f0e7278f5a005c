package storage

import (
	"context"
	"errors"
)

// ErrStorageUnavailable wraps failures of the image archive backend.
var ErrStorageUnavailable = errors.New("object store unavailable")

// ObjectRef points at an archived image.
type ObjectRef struct {
	Bucket string
	Key    string
}

// ObjectStore archives still images. Put overwrites existing objects with the
// same key, which the unknown-visitor flow relies on for its single review
// slot.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte) (ObjectRef, error)
}
