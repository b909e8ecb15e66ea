package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nbfc/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
}

var testOperator = Operator{ID: "1", Email: "admin@nbfc.com", Name: "Admin User", Role: "admin"}

func TestIssueAndValidate(t *testing.T) {
	svc := newTestJWTService()

	tok, err := svc.Issue(testOperator)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.True(t, tok.ExpiresAt.After(time.Now()))

	claims, err := svc.Validate(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, "admin@nbfc.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, tok.ExpiresAt, claims.GetExpiresAtTime(), time.Second)
	assert.False(t, claims.GetIssuedAtTime().IsZero())
}

func TestIssue_RequiresEmail(t *testing.T) {
	_, err := newTestJWTService().Issue(Operator{ID: "1"})
	assert.ErrorIs(t, err, ErrMissingOperator)
}

func TestValidate_Expired(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, err := svc.Issue(testOperator)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Validate(tok.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_Rejects(t *testing.T) {
	svc := newTestJWTService()
	tok, err := svc.Issue(testOperator)
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "another-secret-another-secret-xx", AccessTokenExpiration: time.Minute, Issuer: "test-issuer"})
	_, err = other.Validate(tok.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer := NewJWTService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", AccessTokenExpiration: time.Minute, Issuer: "elsewhere"})
	_, err = wrongIssuer.Validate(tok.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Email: "x@nbfc.com"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Validate(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
