package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/MKhiriev/agricheck/internal/config"
	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/models"
)

// s3API is the subset of *s3.Client used by the image store.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// s3ImageStore keeps images as objects in one bucket of an S3-compatible
// service (AWS S3, MinIO).
type s3ImageStore struct {
	client s3API
	bucket string
	logger *logger.Logger
}

// NewS3ImageStore builds an S3 client from cfg. Static credentials are used
// when both keys are set, otherwise the default AWS credential chain.
func NewS3ImageStore(ctx context.Context, cfg config.S3, logger *logger.Logger) (ImageStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	logger.Debug().Str("bucket", cfg.Bucket).Str("endpoint", cfg.Endpoint).Msg("s3 image store ready")
	return newS3ImageStore(client, cfg.Bucket, logger), nil
}

func newS3ImageStore(client s3API, bucket string, logger *logger.Logger) *s3ImageStore {
	return &s3ImageStore{client: client, bucket: bucket, logger: logger}
}

func (s *s3ImageStore) Save(ctx context.Context, key string, data []byte, contentType string) error {
	if !validKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidImageKey, key)
	}
	if contentType == "" {
		contentType = MediaTypeForKey(key)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "s3ImageStore.Save").Str("key", key).Msg("failed to put object")
		return fmt.Errorf("error uploading image %q: %w", key, err)
	}
	return nil
}

func (s *s3ImageStore) Load(ctx context.Context, key string) (models.ScanImage, error) {
	if !validKey(key) {
		return models.ScanImage{}, ErrImageNotFound
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return models.ScanImage{}, ErrImageNotFound
		}
		return models.ScanImage{}, fmt.Errorf("error downloading image %q: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return models.ScanImage{}, fmt.Errorf("error reading image %q: %w", key, err)
	}

	return models.ScanImage{Data: data, MediaType: MediaTypeForKey(key)}, nil
}

func (s *s3ImageStore) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidImageKey, key)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("error deleting image %q: %w", key, err)
	}
	return nil
}
