package cache

import (
	"context"
	"time"
)

// Cache stores values with expiry.
// Expired values are reported as absent by Get and stay readable by GetStale until overwritten or removed.
type Cache[T any] interface {
	// Get returns value stored under key and true, or zero value and false when it is absent or expired.
	Get(ctx context.Context, key string) (T, bool, error)
	// GetStale returns last value stored under key regardless of its expiry.
	GetStale(ctx context.Context, key string) (T, bool, error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value T, ttl time.Duration) error
	// Delete removes value stored under key.
	Delete(ctx context.Context, key string) error
	// Clear removes all values.
	Clear(ctx context.Context) error
}

// Clock provides current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// Now returns current UTC time.
func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
