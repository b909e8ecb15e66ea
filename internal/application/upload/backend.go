package upload

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nbfc/backoffice/internal/domain/shared"
	"github.com/nbfc/backoffice/internal/infrastructure/restclient"
)

// BackendUploader stores files through the master-data backend's
// /masterupload and /mastergetfile routes.
type BackendUploader struct {
	client *restclient.Client
}

var _ Uploader = (*BackendUploader)(nil)

// NewBackendUploader creates the backend driver
func NewBackendUploader(client *restclient.Client) *BackendUploader {
	return &BackendUploader{client: client}
}

// Upload posts f as multipart form data with fields "file" and "category"
func (u *BackendUploader) Upload(ctx context.Context, f File, category string) (Result, error) {
	if f.Reader == nil || f.Name == "" {
		return Result{}, shared.ErrInvalidInput.WithMessage("file is required")
	}
	resp, err := u.client.Do(ctx, restclient.Request{
		Method:   http.MethodPost,
		Path:     "/masterupload",
		Files:    map[string]restclient.File{"file": {Name: f.Name, Reader: f.Reader}},
		FormData: map[string]string{"category": category},
	})
	if err != nil {
		return Result{}, err
	}
	if !resp.IsSuccess() {
		return Result{}, restclient.NewHTTPError(resp.StatusCode, resp.Body)
	}
	return NormalizeResult(resp.Body, f)
}

// URL resolves ref against the backend base URL
func (u *BackendUploader) URL(_ context.Context, ref string) (string, error) {
	return FileURL(u.client.BaseURL(), ref), nil
}

// Delete removes a file by id
func (u *BackendUploader) Delete(ctx context.Context, id string) error {
	if id == "" {
		return shared.ErrInvalidInput.WithMessage("id is required")
	}
	return u.client.Expect(ctx, restclient.Request{
		Method: http.MethodDelete,
		Path:   "/mastergetfile/" + url.PathEscape(id),
		Route:  "/mastergetfile/{id}",
	})
}
