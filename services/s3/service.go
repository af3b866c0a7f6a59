// Package s3 stores uploaded images in an S3-compatible bucket.
package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Service struct {
	client ObjectAPI
	cfg    ClientConfig
	logger *zap.Logger
}

func NewS3Service(ctx context.Context, cfg ClientConfig, logger *zap.Logger) (*S3Service, error) {
	awsCfg, err := newAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Path-style addressing keeps MinIO and other compatible stores working.
		o.UsePathStyle = cfg.Endpoint != ""
	})
	return NewWithClient(client, cfg, logger), nil
}

func NewWithClient(client ObjectAPI, cfg ClientConfig, logger *zap.Logger) *S3Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3Service{client: client, cfg: cfg, logger: logger.Named("s3")}
}

// Upload stores content under key and returns its public URL.
func (s *S3Service) Upload(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	s.logger.Debug("object uploaded", zap.String("key", key), zap.Int("bytes", len(content)))
	return s.cfg.objectURL(key), nil
}

func (s *S3Service) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
