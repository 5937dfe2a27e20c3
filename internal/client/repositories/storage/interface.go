// Package storage is the persisted key-value store backing the session.
// It plays the role browser local storage plays for the web client.
package storage

import "context"

// Repository stores opaque string-keyed values. Get returns (nil, nil) when
// the key is absent; absence is a normal outcome, not an error.
// SetMany writes all pairs atomically: either every key is updated or none.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
