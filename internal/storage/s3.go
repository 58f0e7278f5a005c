package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store archives images in an S3 (or S3-compatible) bucket.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store builds an object store against the given bucket.
func NewS3Store(client *s3.Client, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

// Put uploads the image under key, overwriting any prior object.
func (s *S3Store) Put(ctx context.Context, key string, body []byte) (ObjectRef, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return ObjectRef{}, fmt.Errorf("%w: put %s: %v", ErrStorageUnavailable, key, err)
	}

	return ObjectRef{Bucket: s.bucket, Key: key}, nil
}
