package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nbfc/backoffice/internal/infrastructure/auth"
	"github.com/nbfc/backoffice/internal/infrastructure/config"
	"github.com/nbfc/backoffice/internal/infrastructure/logger"
	"github.com/nbfc/backoffice/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: expiration,
		Issuer:                "test-issuer",
	})
}

func issue(t *testing.T, svc *auth.JWTService) string {
	t.Helper()
	tok, err := svc.Issue(auth.Operator{ID: "1", Email: "admin@nbfc.com", Role: "admin"})
	require.NoError(t, err)
	return tok.AccessToken
}

type revocationFunc func(ctx context.Context, jti string) (bool, error)

func (f revocationFunc) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return f(ctx, jti)
}

func newJWTRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddleware(cfg))
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"email":    GetJWTEmail(c),
			"operator": logger.GetOperator(c.Request.Context()),
		})
	}
	router.GET("/api/v1/companies", handler)
	router.POST("/api/v1/auth/login", handler)
	return router
}

func serve(router *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set(AuthHeaderKey, authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	w := serve(newJWTRouter(DefaultJWTConfig(svc)), http.MethodGet, "/api/v1/companies", BearerPrefix+issue(t, svc))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"admin@nbfc.com","operator":"admin@nbfc.com"}`, w.Body.String())
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	expired := newTestJWTService(-time.Minute)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeTokenInvalid},
		{"wrong scheme", "Basic abc", dto.ErrCodeTokenInvalid},
		{"empty token", BearerPrefix, dto.ErrCodeTokenInvalid},
		{"garbage", BearerPrefix + "abc.def.ghi", dto.ErrCodeTokenInvalid},
		{"expired", BearerPrefix + issue(t, expired), dto.ErrCodeTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newJWTRouter(DefaultJWTConfig(svc)), http.MethodGet, "/api/v1/companies", tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	w := serve(newJWTRouter(DefaultJWTConfig(svc)), http.MethodPost, "/api/v1/auth/login", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_Revoked(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	cfg := DefaultJWTConfig(svc)
	cfg.Revocations = revocationFunc(func(context.Context, string) (bool, error) { return true, nil })

	w := serve(newJWTRouter(cfg), http.MethodGet, "/api/v1/companies", BearerPrefix+issue(t, svc))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, w))
}

func TestJWTAuthMiddleware_RevocationCheckFailsOpen(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	cfg := DefaultJWTConfig(svc)
	cfg.Revocations = revocationFunc(func(context.Context, string) (bool, error) { return false, errors.New("redis down") })

	w := serve(newJWTRouter(cfg), http.MethodGet, "/api/v1/companies", BearerPrefix+issue(t, svc))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetJWTClaims_NotFound(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTEmail(c))
	assert.WithinDuration(t, time.Now(), TokenExpiry(c), time.Second)
}
