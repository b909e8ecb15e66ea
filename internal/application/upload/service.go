// Package upload handles document uploads for master-data records.
package upload

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultCategory is used when an upload names no category
const DefaultCategory = "general"

// File is one file to upload
type File struct {
	Name        string
	Reader      io.Reader
	Size        int64
	ContentType string
}

// Uploader is a storage driver for uploaded documents
type Uploader interface {
	Upload(ctx context.Context, f File, category string) (Result, error)
	// URL resolves an id, path or URL returned by Upload into a retrieval URL
	URL(ctx context.Context, ref string) (string, error)
	Delete(ctx context.Context, id string) error
}

// Service uploads, resolves and deletes documents through an Uploader
type Service struct {
	uploader Uploader
	timeout  time.Duration
	logger   *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithTimeout bounds each upload. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a Service over uploader
func NewService(uploader Uploader, opts ...Option) *Service {
	s := &Service{uploader: uploader, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadFile uploads one file. Cancelling ctx aborts the in-flight upload.
func (s *Service) UploadFile(ctx context.Context, f File, category string) (Result, error) {
	if category == "" {
		category = DefaultCategory
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.uploader.Upload(ctx, f, category)
	if err != nil {
		s.logger.Warn("file upload failed",
			zap.String("file", f.Name),
			zap.String("category", category),
			zap.Error(err),
		)
		return Result{}, err
	}
	s.logger.Info("file uploaded",
		zap.String("file", res.FileName),
		zap.String("id", res.ID),
		zap.Int64("size", res.FileSize),
		zap.Duration("latency", time.Since(start)),
	)
	return res, nil
}

// UploadAll uploads files concurrently. Results keep the order of files.
// The first failure cancels the remaining uploads and is returned.
func (s *Service) UploadAll(ctx context.Context, files []File, category string) ([]Result, error) {
	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			res, err := s.UploadFile(gctx, f, category)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// FileURL resolves a stored reference into a retrieval URL
func (s *Service) FileURL(ctx context.Context, ref string) (string, error) {
	return s.uploader.URL(ctx, ref)
}

// DeleteFile removes a stored file
func (s *Service) DeleteFile(ctx context.Context, id string) error {
	return s.uploader.Delete(ctx, id)
}
