package upload

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/nbfc/backoffice/internal/infrastructure/restclient"
	"github.com/nbfc/backoffice/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBackendService(t *testing.T, opts ...Option) (*Service, *testutil.FakeBackend) {
	t.Helper()
	backend := testutil.NewFakeBackend(t)
	return NewService(NewBackendUploader(restclient.New(backend.BaseURL())), opts...), backend
}

func pdf(name, body string) File {
	return File{Name: name, Reader: strings.NewReader(body), Size: int64(len(body))}
}

func TestService_UploadFile(t *testing.T) {
	svc, backend := newBackendService(t)
	ctx := context.Background()

	res, err := svc.UploadFile(ctx, pdf("pan.pdf", "%PDF-1.4 pan"), "kyc")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "file-1", res.ID)
	assert.Equal(t, "pan.pdf", res.FileName)
	assert.Equal(t, int64(12), res.FileSize)
	assert.Equal(t, "/api/v1/mastergetfile/file-1", res.FilePath)
	assert.Equal(t, "2024-01-02T03:04:05Z", res.UploadedAt)

	stored := backend.Files()["file-1"]
	assert.Equal(t, "kyc", stored.Category)
	assert.Equal(t, "%PDF-1.4 pan", string(stored.Data))

	url, err := svc.FileURL(ctx, res.FilePath)
	require.NoError(t, err)
	assert.Equal(t, backend.BaseURL()+"/mastergetfile/file-1", url)

	resp, err := http.Get(url)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, svc.DeleteFile(ctx, res.ID))
	assert.Empty(t, backend.Files())

	err = svc.DeleteFile(ctx, res.ID)
	assert.True(t, restclient.IsNotFound(err))
}

func TestService_UploadFile_DefaultCategory(t *testing.T) {
	svc, backend := newBackendService(t)
	_, err := svc.UploadFile(context.Background(), pdf("a.pdf", "x"), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCategory, backend.Files()["file-1"].Category)
}

func TestService_UploadFile_Errors(t *testing.T) {
	t.Run("backend error", func(t *testing.T) {
		svc, backend := newBackendService(t)
		backend.Fail(http.MethodPost, "/api/v1/masterupload", http.StatusRequestEntityTooLarge, `{"error":"file too large"}`)

		_, err := svc.UploadFile(context.Background(), pdf("big.pdf", "x"), "kyc")
		require.Error(t, err)
		assert.Equal(t, "HTTP 413: file too large", err.Error())
	})

	t.Run("missing file", func(t *testing.T) {
		svc, _ := newBackendService(t)
		_, err := svc.UploadFile(context.Background(), File{Name: "a.pdf"}, "kyc")
		assert.Error(t, err)
	})

	t.Run("cancelled by caller", func(t *testing.T) {
		svc, backend := newBackendService(t)
		backend.SetDelay(5 * time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		start := time.Now()
		_, err := svc.UploadFile(ctx, pdf("slow.pdf", "x"), "kyc")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("service timeout", func(t *testing.T) {
		svc, backend := newBackendService(t, WithTimeout(50*time.Millisecond))
		backend.SetDelay(5 * time.Second)

		_, err := svc.UploadFile(context.Background(), pdf("slow.pdf", "x"), "kyc")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestService_UploadAll(t *testing.T) {
	svc, backend := newBackendService(t)

	files := make([]File, 5)
	for i := range files {
		files[i] = pdf(fmt.Sprintf("doc-%d.pdf", i), fmt.Sprintf("content %d", i))
	}

	results, err := svc.UploadAll(context.Background(), files, "guarantor")
	require.NoError(t, err)
	require.Len(t, results, 5)
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("doc-%d.pdf", i), r.FileName)
		assert.Equal(t, fmt.Sprintf("content %d", i), string(backend.Files()[r.ID].Data))
	}
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, f File, category string) (Result, error) {
	args := m.Called(ctx, f.Name, category)
	return args.Get(0).(Result), args.Error(1)
}

func (m *mockUploader) URL(ctx context.Context, ref string) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

func (m *mockUploader) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestService_UploadAll_FailsFast(t *testing.T) {
	up := new(mockUploader)
	boom := errors.New("disk full")
	up.On("Upload", mock.Anything, "a.pdf", "kyc").Return(Result{ID: "a"}, nil)
	up.On("Upload", mock.Anything, "b.pdf", "kyc").Return(Result{}, boom)

	svc := NewService(up)
	results, err := svc.UploadAll(context.Background(), []File{{Name: "a.pdf"}, {Name: "b.pdf"}}, "kyc")
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, results)
	up.AssertExpectations(t)
}
