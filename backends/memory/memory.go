package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dynsource/dynsource"
)

// Config describes one named in-memory store. The memory backend exists for
// tests and local development; it needs no external process.
type Config struct {
	// CleanupInterval controls background expiry sweeps. Zero disables them;
	// expired keys are then dropped lazily on read.
	CleanupInterval time.Duration `yaml:"cleanup_interval" validate:"gte=0"`
}

// Set binds a named map of memory configs plus the primary name.
type Set = dynsource.Set[Config]

type storeValue struct {
	value      any
	expiration time.Time // zero means no expiry
}

// Store is a concurrency-safe key-value map with per-key TTL.
type Store struct {
	locks    sync.Map // map[string]*sync.Mutex
	values   sync.Map // map[string]storeValue
	stopOnce sync.Once
	stop     chan struct{}
}

// NewStore creates a store, starting a background expiry sweeper when
// cleanupInterval is positive.
func NewStore(cleanupInterval time.Duration) *Store {
	s := &Store{stop: make(chan struct{})}
	if cleanupInterval > 0 {
		go func() {
			ticker := time.NewTicker(cleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					s.cleanup()
				case <-s.stop:
					return
				}
			}
		}()
	}
	return s
}

// getLock returns a mutex for the given key
func (s *Store) getLock(key string) *sync.Mutex {
	actual, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// Get returns the value stored under key. The second result is false when
// the key does not exist or has expired.
func (s *Store) Get(_ context.Context, key string) (any, bool, error) {
	lock := s.getLock(key)
	lock.Lock()
	defer lock.Unlock()

	valAny, exists := s.values.Load(key)
	if !exists {
		return nil, false, nil
	}

	val := valAny.(storeValue)
	if !val.expiration.IsZero() && time.Now().After(val.expiration) {
		s.values.Delete(key) // Clean up expired key
		return nil, false, nil
	}
	return val.value, true, nil
}

// Set stores value under key. Zero expiration means no expiry.
func (s *Store) Set(_ context.Context, key string, value any, expiration time.Duration) error {
	lock := s.getLock(key)
	lock.Lock()
	defer lock.Unlock()

	var expirationTime time.Time
	if expiration > 0 {
		expirationTime = time.Now().Add(expiration)
	}
	s.values.Store(key, storeValue{value: value, expiration: expirationTime})
	return nil
}

// Delete removes key from the store.
func (s *Store) Delete(_ context.Context, key string) error {
	lock := s.getLock(key)
	lock.Lock()
	defer lock.Unlock()

	s.values.Delete(key)
	return nil
}

// Keys returns all live keys in no particular order.
func (s *Store) Keys() []string {
	now := time.Now()
	var keys []string
	s.values.Range(func(key, valAny any) bool {
		val := valAny.(storeValue)
		if val.expiration.IsZero() || now.Before(val.expiration) {
			keys = append(keys, key.(string))
		}
		return true
	})
	return keys
}

func (s *Store) cleanup() {
	now := time.Now()
	var keysToDelete []string

	// First pass: find expired keys
	s.values.Range(func(key, valAny any) bool {
		val := valAny.(storeValue)
		if !val.expiration.IsZero() && now.After(val.expiration) {
			keysToDelete = append(keysToDelete, key.(string))
		}
		return true
	})

	// Second pass: delete expired keys with their individual locks
	for _, key := range keysToDelete {
		lock := s.getLock(key)
		lock.Lock()
		s.values.Delete(key)
		lock.Unlock()
	}
}

// Close stops the sweeper and drops all keys.
func (s *Store) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	s.values = sync.Map{}
	s.locks = sync.Map{}
	return nil
}

// Template is the memory rendition of the key-value template contract.
type Template struct {
	store *Store
}

// NewTemplate wraps store.
func NewTemplate(store *Store) *Template {
	return &Template{store: store}
}

// Store exposes the underlying store.
func (t *Template) Store() *Store {
	return t.store
}

// Set stores value under key. Zero expiration means no expiry.
func (t *Template) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return t.store.Set(ctx, key, value, expiration)
}

// Get returns the value stored under key, and false when absent or expired.
func (t *Template) Get(ctx context.Context, key string) (any, bool, error) {
	return t.store.Get(ctx, key)
}

// Delete removes key.
func (t *Template) Delete(ctx context.Context, key string) error {
	return t.store.Delete(ctx, key)
}

// Keys returns all live keys.
func (t *Template) Keys() []string {
	return t.store.Keys()
}

// Ping always succeeds; the store lives in-process.
func (t *Template) Ping(context.Context) error {
	return nil
}
