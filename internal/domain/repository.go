package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// PriceProvider answers "what does this product cost at one retailer?".
//
// Quote must never panic or otherwise propagate a failure to the caller:
// every error condition (bad input, network failure, timeout, parse failure)
// is encoded in the returned PriceQuote as Available=false plus an Error
// message and ErrorCode. This keeps one slow or broken retailer from
// poisoning the whole comparison.
type PriceProvider interface {
	Platform() Platform
	Quote(ctx context.Context, productName string) PriceQuote
}
