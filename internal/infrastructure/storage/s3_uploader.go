// Package storage provides object storage drivers for uploaded documents.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/nbfc/backoffice/internal/application/upload"
	"github.com/nbfc/backoffice/internal/domain/shared"
	infraconfig "github.com/nbfc/backoffice/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure S3Uploader implements upload.Uploader
var _ upload.Uploader = (*S3Uploader)(nil)

// S3Uploader stores documents directly in an S3-compatible bucket
// (AWS S3, MinIO, RustFS, ...) instead of going through /masterupload.
type S3Uploader struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	presignExpiration time.Duration
	logger            *zap.Logger
	now               func() time.Time
}

// S3UploaderOption is a functional option for configuring S3Uploader
type S3UploaderOption func(*S3Uploader)

// WithLogger sets a custom logger for S3Uploader
func WithLogger(logger *zap.Logger) S3UploaderOption {
	return func(s *S3Uploader) {
		s.logger = logger
	}
}

// WithPresignExpiration sets a custom presign expiration duration
func WithPresignExpiration(d time.Duration) S3UploaderOption {
	return func(s *S3Uploader) {
		s.presignExpiration = d
	}
}

// NewS3Uploader creates a new S3Uploader from configuration.
func NewS3Uploader(cfg *infraconfig.StorageConfig, opts ...S3UploaderOption) (*S3Uploader, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}

	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000" // MinIO default
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid storage endpoint: %w", err)
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	s := &S3Uploader{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		presignExpiration: cfg.PresignExpiration,
		logger:            zap.NewNop(),
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.presignExpiration == 0 {
		s.presignExpiration = 15 * time.Minute
	}
	return s, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup to ensure the bucket is ready.
func (s *S3Uploader) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating document bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// Ignore "BucketAlreadyOwnedByYou" error (race condition)
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// ObjectKey builds the key "category/uuid-filename"
func ObjectKey(category, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r < 0x20 || r == '?' || r == '#' || r == '%':
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		name = "file"
	}
	return strings.Trim(category, "/") + "/" + uuid.NewString() + "-" + name
}

// Upload puts the file under ObjectKey(category, f.Name)
func (s *S3Uploader) Upload(ctx context.Context, f upload.File, category string) (upload.Result, error) {
	if f.Reader == nil || f.Name == "" {
		return upload.Result{}, shared.ErrInvalidInput.WithMessage("file is required")
	}

	// The SDK needs a seekable body to sign requests over plain HTTP.
	data, err := io.ReadAll(f.Reader)
	if err != nil {
		return upload.Result{}, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	key := ObjectKey(category, f.Name)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata:    map[string]string{"original-name": f.Name, "category": category},
	})
	if err != nil {
		return upload.Result{}, fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.Debug("document stored", zap.String("bucket", s.bucket), zap.String("key", key))
	return upload.Result{
		Success:    true,
		FilePath:   key,
		FileName:   f.Name,
		FileSize:   int64(len(data)),
		MimeType:   contentType,
		UploadedAt: s.now().UTC().Format(time.RFC3339),
		ID:         key,
	}, nil
}

// URL returns a presigned GET URL for an object key. Absolute URLs are
// returned unchanged.
func (s *S3Uploader) URL(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return ref, nil
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimLeft(ref, "/")),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}
	return req.URL, nil
}

// Delete removes the object. A missing object yields shared.ErrNotFound.
func (s *S3Uploader) Delete(ctx context.Context, id string) error {
	if id == "" {
		return shared.ErrInvalidInput.WithMessage("id is required")
	}
	exists, err := s.ObjectExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound.WithMessage("file not found: " + id)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// ObjectExists checks if an object exists in storage.
func (s *S3Uploader) ObjectExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
			return false, nil
		}
		// Some S3-compatible services report missing keys differently
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "NoSuchKey") {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

// GetBucket returns the bucket name
func (s *S3Uploader) GetBucket() string {
	return s.bucket
}
