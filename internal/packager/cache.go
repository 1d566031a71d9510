package packager

import (
	"encoding/json"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ConfigKey returns a stable content hash of cfg. Generation is pure, so a
// manifest can be cached under this key: identical configs always hash to
// the same value across runs.
func ConfigKey(cfg ManifestConfig) uint64 {
	// Struct field order fixes the serialization, so the hash is canonical.
	// ManifestConfig contains only marshalable types; the error is unreachable.
	buf, _ := json.Marshal(cfg)
	return xxhash.Sum64(buf)
}

// Store is the storage abstraction for generated manifests, keyed by config
// hash. Implementations need not be safe for concurrent use; Cache wraps a
// Store with locking.
type Store interface {
	Get(key uint64) (string, bool)
	Set(key uint64, manifest string)
	Len() int
	// Reset drops all entries.
	Reset()
}

// InMemoryStore is a map-backed Store.
type InMemoryStore struct {
	manifests map[uint64]string
}

// NewInMemoryStore returns a new empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{manifests: make(map[uint64]string)}
}

// Get implements Store.Get.
func (s *InMemoryStore) Get(key uint64) (string, bool) {
	m, ok := s.manifests[key]
	return m, ok
}

// Set implements Store.Set.
func (s *InMemoryStore) Set(key uint64, manifest string) {
	s.manifests[key] = manifest
}

// Len implements Store.Len.
func (s *InMemoryStore) Len() int {
	return len(s.manifests)
}

// Reset implements Store.Reset.
func (s *InMemoryStore) Reset() {
	s.manifests = make(map[uint64]string)
}

// Cache is a concurrency-safe manifest cache bounded to maxEntries. When the
// bound is reached the cache resets rather than evicting piecemeal; entries
// are cheap to regenerate.
type Cache struct {
	mu         sync.RWMutex
	store      Store
	maxEntries int
}

// DefaultCacheSize bounds the cache when no explicit size is configured.
const DefaultCacheSize = 256

// NewCache constructs a Cache over a fresh in-memory store. maxEntries <= 0
// selects DefaultCacheSize.
func NewCache(maxEntries int) *Cache {
	return NewCacheWithStore(NewInMemoryStore(), maxEntries)
}

// NewCacheWithStore constructs a Cache over the given Store. Useful for
// testing or for plugging in a different storage backend.
func NewCacheWithStore(store Store, maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	return &Cache{store: store, maxEntries: maxEntries}
}

// Get returns the cached manifest for key, if present.
func (c *Cache) Get(key uint64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Get(key)
}

// Set stores a manifest under key, resetting the store first if it is full.
func (c *Cache) Set(key uint64, manifest string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.store.Get(key); !ok && c.store.Len() >= c.maxEntries {
		c.store.Reset()
	}
	c.store.Set(key, manifest)
}

// Len returns the number of cached manifests. Used for metrics.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Len()
}
