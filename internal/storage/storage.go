// Package storage is the platform key-value storage used for calendar
// persistence: VK storage in production, a local sqlite table during
// development.
package storage

import (
	"context"
	"errors"
)

var ErrFailure = errors.New("не удалось обратиться к хранилищу")

// KV is the single-key string storage surface the host platform provides.
// Values are JSON serialized by the caller. A missing key reads as "".
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
