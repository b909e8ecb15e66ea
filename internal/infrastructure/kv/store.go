// Package kv provides small key/value stores for persisted console state
// (the logged-in operator and the selected company).
package kv

import "context"

// Store is a byte-valued key/value store. Get reports found=false for a
// missing key rather than an error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
