package ports

import (
	"context"
	"time"
)

// Cache is a best-effort KV store. The importer records import receipts here;
// callers must tolerate failures and never fail an import on cache errors.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
