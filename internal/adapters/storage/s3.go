// internal/adapters/storage/s3.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ammerola/atelier-ops/internal/core/ports"
)

// S3Config holds S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // MinIO or LocalStack
	UsePathStyle    bool
	PublicBaseURL   string // CDN in front of the bucket
}

// S3Storage stores delivery files in an S3 bucket. Objects are addressed by
// their public URL, so the bucket (or the CDN) must serve them.
type S3Storage struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	region   string
	baseURL  string
	logger   *slog.Logger
}

var _ ports.BlobStorage = (*S3Storage)(nil)

// NewS3Storage connects to the bucket, creating it when it does not exist
func NewS3Storage(ctx context.Context, cfg *S3Config, logger *slog.Logger) (*S3Storage, error) {
	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := &S3Storage{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		baseURL:  objectBaseURL(cfg),
		logger:   logger.With(slog.String("storage", "s3"), slog.String("bucket", cfg.Bucket)),
	}
	if err := s.prepareBucket(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("blob storage ready",
		slog.String("region", cfg.Region),
		slog.String("base_url", s.baseURL))
	return s, nil
}

func newS3Client(ctx context.Context, cfg *S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	// static keys win over the default chain (env, profile, instance role)
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.EndpointResolver = s3.EndpointResolverFromURL(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// objectBaseURL is the public prefix every object key is appended to
func objectBaseURL(cfg *S3Config) string {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case endpoint == "":
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	case cfg.UsePathStyle:
		return endpoint + "/" + cfg.Bucket
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint + "/" + cfg.Bucket
	}
	return fmt.Sprintf("%s://%s.%s", u.Scheme, cfg.Bucket, u.Host)
}

// prepareBucket creates the bucket only when HeadBucket says it is missing.
// Any other failure (credentials, network) is returned as is.
func (s *S3Storage) prepareBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		return fmt.Errorf("failed to reach bucket %s: %w", s.bucket, err)
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}
	// us-east-1 rejects an explicit location constraint
	if s.region != "" && s.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}
	if _, err := s.client.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}

	s.logger.Info("bucket created")
	return nil
}

// Upload streams r to key through the multipart uploader and returns the
// object's public URL
func (s *S3Storage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	ct := contentTypeOrDefault(key, contentType)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(ct),
		Metadata:    map[string]string{"uploaded-at": time.Now().UTC().Format(time.RFC3339)},
	}
	if size > 0 {
		input.ContentLength = size
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	location := s.baseURL + "/" + key
	s.logger.InfoContext(ctx, "object stored",
		slog.String("key", key),
		slog.String("content_type", ct),
		slog.Int64("size", size))
	return location, nil
}

// Delete removes the object stored under key. S3 treats a missing key as
// success.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	s.logger.InfoContext(ctx, "object deleted", slog.String("key", key))
	return nil
}
