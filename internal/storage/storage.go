// Package storage holds the key-value backends a journey is persisted to.
package storage

import "context"

// KeyValue is a byte-oriented store. Get reports a missing key with
// errors.ErrKeyNotFound from internal/errors.
type KeyValue interface {
	Get(c context.Context, key string) ([]byte, error)
	Set(c context.Context, key string, value []byte) error
	Delete(c context.Context, key string) error
	Keys(c context.Context, prefix string) ([]string, error)
	Close() error
}
