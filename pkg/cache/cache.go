package cache

import (
	"context"
	"fmt"
	"time"
)

// Store caches serialized analysis reports. Implementations exist for
// in-process memory and Redis; both treat keys as opaque strings and
// values as raw bytes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Invalidate(ctx context.Context, prefix string)
}

// Key builds a cache key from a prefix and parameters.
func Key(prefix string, params ...interface{}) string {
	key := prefix
	for _, p := range params {
		key = fmt.Sprintf("%s:%v", key, p)
	}
	return key
}
