package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func pingRoutes(path string) RegistrarFunc {
	return func(rg *gin.RouterGroup) {
		rg.GET(path, func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})
	}
}

func serve(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
	assert.Empty(t, r.public)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))
	r.Register(pingRoutes("/ping"))
	r.Setup()

	assert.Equal(t, http.StatusOK, serve(engine, "/api/v2/ping").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, "/api/v1/ping").Code)
}

func TestRouterSetup(t *testing.T) {
	deny := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	}

	engine := gin.New()
	NewRouter(engine, WithAuth(deny)).
		RegisterPublic(pingRoutes("/open")).
		Register(pingRoutes("/closed")).
		Setup()

	w := serve(engine, "/api/v1/open")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(engine, "/api/v1/closed").Code)
}

func TestRouterSetup_NoAuth(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).Register(pingRoutes("/closed")).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, "/api/v1/closed").Code)
}
