package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nbfc/backoffice/internal/application/session"
	"github.com/nbfc/backoffice/internal/infrastructure/logger"
	"github.com/nbfc/backoffice/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// CompanyHeader echoes the selected company on responses
const CompanyHeader = "X-Company-ID"

// OperatorSessionKey holds the caller's *session.Session
const OperatorSessionKey = "operator_session"

// SessionResolver returns the session of one operator
type SessionResolver interface {
	Get(ctx context.Context, operatorID string) (*session.Session, error)
}

// OperatorSession resolves the caller's session from the token subject
// and tags the request logger and response with its selected company.
// Tokens whose session has been logged out are rejected. Runs after
// JWTAuthMiddleware.
func OperatorSession(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeTokenInvalid, "Invalid token", GetRequestID(c)))
			return
		}

		ctx := c.Request.Context()
		s, err := sessions.Get(ctx, claims.Subject)
		if err != nil {
			logger.FromContext(ctx).Error("failed to open operator session",
				zap.String("operator_id", claims.Subject), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "Session unavailable", GetRequestID(c)))
			return
		}
		if !s.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Session has ended, please log in again", GetRequestID(c)))
			return
		}

		c.Set(OperatorSessionKey, s)
		if company, ok := s.SelectedCompany(); ok {
			c.Request = c.Request.WithContext(logger.WithCompany(ctx, company.ID))
			c.Writer.Header().Set(CompanyHeader, company.ID)
		}
		c.Next()
	}
}

// GetOperatorSession returns the session set by OperatorSession, or nil
func GetOperatorSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(OperatorSessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}
