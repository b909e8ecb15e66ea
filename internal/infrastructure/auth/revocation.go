package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nbfc/backoffice/internal/infrastructure/kv"
)

// Revocations records tokens revoked on logout until they would have
// expired anyway. Entries live in the session store, so a Redis store
// shares them across console instances.
type Revocations struct {
	store     kv.Store
	keyPrefix string
	now       func() time.Time
}

// NewRevocations creates a revocation list over store
func NewRevocations(store kv.Store) *Revocations {
	return &Revocations{store: store, keyPrefix: "token:revoked:", now: time.Now}
}

func (r *Revocations) key(jti string) string {
	return r.keyPrefix + jti
}

// Revoke marks jti revoked until expiresAt
func (r *Revocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return ErrInvalidClaims
	}
	value := strconv.FormatInt(expiresAt.Unix(), 10)
	if err := r.store.Set(ctx, r.key(jti), []byte(value)); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti was revoked and has not yet expired.
// Expired entries are removed.
func (r *Revocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	raw, found, err := r.store.Get(ctx, r.key(jti))
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if !found {
		return false, nil
	}
	exp, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation expiry: %w", err)
	}
	if r.now().Unix() >= exp {
		_ = r.store.Delete(ctx, r.key(jti))
		return false, nil
	}
	return true, nil
}
