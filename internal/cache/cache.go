// Package cache holds rendered board snapshots so repeated reads of the same
// board skip the three ordered queries.
package cache

import (
	"context"
	"errors"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	// Incr atomically adds one to the integer stored at key, starting from
	// zero, and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
}

// Noop never stores anything. It is used when no Redis URL is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }
func (Noop) Set(context.Context, string, []byte) error { return nil }
func (Noop) Delete(context.Context, ...string) error { return nil }
func (Noop) Incr(context.Context, string) (int64, error) { return 0, nil }
