package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nbfc/backoffice/internal/domain/shared"
	"github.com/nbfc/backoffice/internal/infrastructure/restclient"
	"github.com/nbfc/backoffice/internal/interfaces/http/dto"
	"github.com/nbfc/backoffice/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name: "from context",
			setup: func(c *gin.Context) {
				c.Set("request_id", "ctx-request-id")
			},
			expectedID: "ctx-request-id",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set(middleware.RequestIDHeader, "header-request-id")
			},
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context takes precedence over header",
			setup: func(c *gin.Context) {
				c.Set("request_id", "ctx-id")
				c.Request.Header.Set(middleware.RequestIDHeader, "header-id")
			},
			expectedID: "ctx-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext()
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.Success(c, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Meta)
}

func TestBaseHandlerList(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.List(c, []string{"a", "b"}, 2)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Total)
}

func TestBaseHandlerCreated(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.Created(c, map[string]string{"id": "123"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandlerErrorWithRequestID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()
	c.Set("request_id", "req-42")

	h.BadRequest(c, "Invalid request")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "req-42", resp.Error.RequestID)
}

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedCode    string
		expectedMessage string
	}{
		{
			name:            "domain not found",
			err:             shared.ErrNotFound.WithMessage("area not listed"),
			expectedStatus:  http.StatusNotFound,
			expectedCode:    dto.ErrCodeNotFound,
			expectedMessage: "area not listed",
		},
		{
			name:            "wrapped invalid input",
			err:             fmt.Errorf("submit: %w", shared.ErrInvalidInput.WithMessage("Please fill in the required fields: Area Name")),
			expectedStatus:  http.StatusBadRequest,
			expectedCode:    dto.ErrCodeInvalidInput,
			expectedMessage: "Please fill in the required fields: Area Name",
		},
		{
			name:           "no company",
			err:            shared.ErrNoCompany,
			expectedStatus: http.StatusConflict,
			expectedCode:   dto.ErrCodeNoCompany,
		},
		{
			name:            "backend rejection",
			err:             restclient.NewHTTPError(http.StatusInternalServerError, []byte(`{"message":"db offline"}`)),
			expectedStatus:  http.StatusBadGateway,
			expectedCode:    dto.ErrCodeBackend,
			expectedMessage: "db offline",
		},
		{
			name:            "backend not found",
			err:             fmt.Errorf("get: %w", restclient.NewHTTPError(http.StatusNotFound, []byte(`{"message":"record not found"}`))),
			expectedStatus:  http.StatusNotFound,
			expectedCode:    dto.ErrCodeNotFound,
			expectedMessage: "record not found",
		},
		{
			name:           "deadline",
			err:            fmt.Errorf("list: %w", context.DeadlineExceeded),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   dto.ErrCodeBackendUnavailable,
		},
		{
			name:            "anything else",
			err:             errors.New("boom"),
			expectedStatus:  http.StatusInternalServerError,
			expectedCode:    dto.ErrCodeInternal,
			expectedMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext()

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
			if tt.expectedMessage != "" {
				assert.Equal(t, tt.expectedMessage, resp.Error.Message)
			}
		})
	}
}

func TestBaseHandlerHandleError_Nil(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.HandleError(c, nil)

	assert.Empty(t, w.Body.Bytes())
}
