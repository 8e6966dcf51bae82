package cache

import (
	"errors"
	"time"
)

// NoExpiration keeps an entry until it is deleted.
const NoExpiration time.Duration = -1

// ErrExists is returned by Add when the key is already present.
var ErrExists = errors.New("cache: key already exists")

// CacheService is a concurrency-safe keyed store.
type CacheService interface {
	// Get returns the value and true when the key is present.
	Get(key string) (interface{}, bool)

	// Set stores a value, replacing any existing one.
	Set(key string, value interface{}, duration time.Duration)

	// Add stores a value only if the key is absent, otherwise ErrExists.
	Add(key string, value interface{}, duration time.Duration) error

	Delete(key string)

	// Items returns a snapshot of every unexpired entry.
	Items() map[string]interface{}

	// Count returns the number of entries, expired ones included.
	Count() int

	Flush()
}
