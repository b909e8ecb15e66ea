package storage

import (
	"context"
	"fmt"

	"github.com/nbfc/backoffice/internal/application/upload"
	infraconfig "github.com/nbfc/backoffice/internal/infrastructure/config"
	"github.com/nbfc/backoffice/internal/infrastructure/restclient"
	"go.uber.org/zap"
)

// NewUploader selects the upload driver named by cfg.Driver
func NewUploader(ctx context.Context, cfg *infraconfig.StorageConfig, client *restclient.Client, logger *zap.Logger) (upload.Uploader, error) {
	switch cfg.Driver {
	case "", "backend":
		return upload.NewBackendUploader(client), nil
	case "s3":
		s, err := NewS3Uploader(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
