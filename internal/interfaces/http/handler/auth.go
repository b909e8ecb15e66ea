package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nbfc/backoffice/internal/application/session"
	"github.com/nbfc/backoffice/internal/infrastructure/auth"
	"github.com/nbfc/backoffice/internal/infrastructure/logger"
	"github.com/nbfc/backoffice/internal/interfaces/http/dto"
	"github.com/nbfc/backoffice/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// TokenRevoker revokes a token id until its expiry
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
}

// AuthHandler handles login, logout and the session view. Each operator
// has a session of their own, keyed by the token subject.
type AuthHandler struct {
	BaseHandler
	sessions *session.Sessions
	jwt      *auth.JWTService
	revoker  TokenRevoker
}

// NewAuthHandler creates a new auth handler. revoker may be nil.
func NewAuthHandler(sessions *session.Sessions, jwt *auth.JWTService, revoker TokenRevoker) *AuthHandler {
	return &AuthHandler{sessions: sessions, jwt: jwt, revoker: revoker}
}

// RegisterPublicRoutes registers the unauthenticated auth routes
func (h *AuthHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

// RegisterRoutes registers the authenticated auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.Logout)
	rg.GET("/session", h.Session)
}

// Login godoc
// @Summary      Operator login
// @Description  Checks the operator credentials, restores companies and issues a console token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} dto.Response{data=LoginResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Email and password are required")
		return
	}

	s, ok, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !ok {
		h.Unauthorized(c, dto.ErrCodeInvalidCredentials, "Invalid email or password")
		return
	}

	u, _ := s.User()
	tok, err := h.jwt.Issue(auth.Operator{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		Token:     tok.AccessToken,
		TokenType: tok.TokenType,
		ExpiresAt: tok.ExpiresAt,
		Session:   sessionResponse(s),
	})
}

// Logout godoc
// @Summary      Operator logout
// @Description  Revokes the console token and clears the persisted session
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, dto.ErrCodeTokenInvalid, "Invalid token")
		return
	}
	if h.revoker != nil {
		if err := h.revoker.Revoke(ctx, claims.ID, claims.GetExpiresAtTime()); err != nil {
			logger.FromContext(ctx).Error("failed to revoke token", zap.Error(err))
		}
	}
	if err := h.sessions.Logout(ctx, claims.Subject); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Logged out"})
}

// Session returns the current operator context
func (h *AuthHandler) Session(c *gin.Context) {
	h.Success(c, sessionResponse(middleware.GetOperatorSession(c)))
}
