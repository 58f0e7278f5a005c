package faces

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/smart-door/smart_door/internal/event"
	"github.com/smart-door/smart_door/internal/storage"
)

// RekognitionDirectory backs the face directory with an AWS Rekognition
// collection. Identity keys are stored as ExternalImageId on the indexed
// faces.
type RekognitionDirectory struct {
	client     *rekognition.Client
	collection string
	threshold  float32
}

// NewRekognitionDirectory builds a directory over the named collection.
func NewRekognitionDirectory(client *rekognition.Client, collection string) *RekognitionDirectory {
	return &RekognitionDirectory{client: client, collection: collection, threshold: 80}
}

// Match runs SearchFacesByImage and reports the best hit's identity key.
func (d *RekognitionDirectory) Match(ctx context.Context, image []byte) (event.MatchResult, error) {
	out, err := d.client.SearchFacesByImage(ctx, &rekognition.SearchFacesByImageInput{
		CollectionId:       aws.String(d.collection),
		Image:              &types.Image{Bytes: image},
		FaceMatchThreshold: aws.Float32(d.threshold),
		MaxFaces:           aws.Int32(1),
	})
	if err != nil {
		return event.MatchResult{}, fmt.Errorf("search faces: %w", err)
	}

	for _, match := range out.FaceMatches {
		if match.Face != nil && match.Face.ExternalImageId != nil {
			return event.MatchResult{IdentityKey: *match.Face.ExternalImageId}, nil
		}
	}
	return event.MatchResult{}, nil
}

// Enroll indexes the archived image under identityKey. Zero face records in
// the response means the directory saw no usable face.
func (d *RekognitionDirectory) Enroll(ctx context.Context, ref storage.ObjectRef, identityKey string) (string, error) {
	out, err := d.client.IndexFaces(ctx, &rekognition.IndexFacesInput{
		CollectionId:    aws.String(d.collection),
		ExternalImageId: aws.String(identityKey),
		Image: &types.Image{
			S3Object: &types.S3Object{
				Bucket: aws.String(ref.Bucket),
				Name:   aws.String(ref.Key),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEnrollmentFailed, err)
	}

	for _, rec := range out.FaceRecords {
		if rec.Face != nil && rec.Face.FaceId != nil {
			return *rec.Face.FaceId, nil
		}
	}
	return "", fmt.Errorf("%w: no face detected in %s", ErrEnrollmentFailed, ref.Key)
}
