package infra

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	appconfig "github.com/smart-door/smart_door/internal/config"
)

// NewAWSConfig resolves SDK configuration for the region. Static credentials
// are only injected when an S3-compatible endpoint override is configured
// (e.g. MinIO in development); otherwise the default provider chain applies.
func NewAWSConfig(ctx context.Context, cfg appconfig.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.S3BaseEndpoint != "" && cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

// NewS3Client builds the object store client, honouring an endpoint override.
func NewS3Client(awsCfg aws.Config, baseEndpoint string) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if baseEndpoint != "" {
			o.BaseEndpoint = aws.String(baseEndpoint)
			o.UsePathStyle = true
		}
	})
}

// NewRekognitionClient builds the face directory client.
func NewRekognitionClient(awsCfg aws.Config) *rekognition.Client {
	return rekognition.NewFromConfig(awsCfg)
}

// NewSNSClient builds the SMS delivery client.
func NewSNSClient(awsCfg aws.Config) *sns.Client {
	return sns.NewFromConfig(awsCfg)
}
