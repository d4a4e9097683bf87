// Package cache implements the Result Cache: a content-addressed LRU
// cache, one per Engine, with a per-entry TTL, optionally backed by an
// on-disk bbolt store so warm entries survive a process restart.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DefaultCapacity is the maximum number of hot in-memory entries.
const DefaultCapacity = 1000

// DefaultTTL is how long an entry remains valid after being written.
const DefaultTTL = time.Hour

// Store is the optional persistence tier behind the in-memory LRU layer.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(key string) (value string, ok bool)
	Set(key, value string)
	Delete(key string)
	Close() error
}

// Key derives the content-addressed cache key for a piece of normalized
// input text plus a string describing the options that produced (or
// would produce) a result for it. Callers are expected to fold every
// option that affects output (preset, model, enabled passes, ...) into
// optionsFingerprint before calling Key.
func Key(normalizedInput, optionsFingerprint string) string {
	h := sha256.New()
	h.Write([]byte(normalizedInput))
	h.Write([]byte{0})
	h.Write([]byte(optionsFingerprint))
	return hex.EncodeToString(h.Sum(nil))
}

type entry struct {
	key       string
	value     string
	expiresAt time.Time
	elem      *list.Element
}

// Cache is an LRU-with-TTL cache. The zero value is not usable; construct
// with New.
type Cache struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration

	entries map[string]*entry
	order   *list.List // front = most recently used, back = least

	hits        int64
	misses      int64
	evictions   int64
	expirations int64

	backing Store
}

// Options configures a new Cache.
type Options struct {
	// Capacity bounds the number of hot in-memory entries. Zero selects
	// DefaultCapacity.
	Capacity int
	// TTL bounds how long an entry is valid after being stored. Zero
	// selects DefaultTTL.
	TTL time.Duration
	// PersistPath, if set, opens a bbolt-backed Store at that path so
	// entries survive a process restart. Empty disables persistence.
	PersistPath string
}

// New constructs a Cache per opts. If opts.PersistPath is set and the
// bbolt database cannot be opened, persistence is silently disabled and
// the cache falls back to memory-only — a degraded cache is preferable to
// a failed engine construction over a cosmetic storage feature.
func New(opts Options) *Cache {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &Cache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*entry, capacity),
		order:    list.New(),
	}

	if opts.PersistPath != "" {
		store, err := newBboltStore(opts.PersistPath)
		if err != nil {
			log.Printf("[CACHE] persistence disabled: %v", err)
		} else {
			c.backing = store
		}
	}

	return c
}

// Get returns the cached value for key, if present and unexpired. A hit
// moves the entry to the front of the LRU order.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if time.Now().After(e.expiresAt) {
			c.removeLocked(e)
			c.expirations++
			c.misses++
			c.mu.Unlock()
			if c.backing != nil {
				c.backing.Delete(key)
			}
			return "", false
		}
		c.order.MoveToFront(e.elem)
		c.hits++
		v := e.value
		c.mu.Unlock()
		return v, true
	}
	c.misses++
	c.mu.Unlock()

	if c.backing == nil {
		return "", false
	}
	v, ok := c.backing.Get(key)
	if !ok {
		return "", false
	}
	c.insert(key, v)
	return v, true
}

// Set stores value under key with the configured TTL, evicting the
// least-recently-used entry if the cache is at capacity.
func (c *Cache) Set(key, value string) {
	c.insert(key, value)
	if c.backing != nil {
		c.backing.Set(key, value)
	}
}

func (c *Cache) insert(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = time.Now().Add(c.ttl)
		c.order.MoveToFront(e.elem)
		return
	}

	e := &entry{key: key, value: value, expiresAt: time.Now().Add(c.ttl)}
	e.elem = c.order.PushFront(key)
	c.entries[key] = e

	for len(c.entries) > c.capacity {
		c.evictOldestLocked()
	}
}

// evictOldestLocked removes the least-recently-used entry. Must be
// called with c.mu held.
func (c *Cache) evictOldestLocked() {
	back := c.order.Back()
	if back == nil {
		return
	}
	key, _ := back.Value.(string)
	e, ok := c.entries[key]
	if !ok {
		c.order.Remove(back)
		return
	}
	c.removeLocked(e)
	c.evictions++
	if c.backing != nil {
		go c.backing.Delete(key) // async: avoid blocking the hot path
	}
}

// removeLocked removes e from both the map and the order list. Must be
// called with c.mu held.
func (c *Cache) removeLocked(e *entry) {
	c.order.Remove(e.elem)
	delete(c.entries, e.key)
}

// Clear empties the in-memory cache and, if persistence is enabled, the
// backing store is left untouched (on-disk entries simply go cold; they
// are re-warmed the next time a matching key is requested).
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry, c.capacity)
	c.order = list.New()
	c.mu.Unlock()
}

// Close releases the backing store, if any.
func (c *Cache) Close() error {
	if c.backing != nil {
		return c.backing.Close()
	}
	return nil
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Size        int
	Capacity    int
	Hits        int64
	Misses      int64
	Evictions   int64
	Expirations int64
}

// Stats returns a snapshot of the cache's counters and current size.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:        len(c.entries),
		Capacity:    c.capacity,
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Expirations: c.expirations,
	}
}

const bboltBucket = "tokshrink_cache"

// bboltStore is a Store backed by an embedded bbolt database, adapted
// from the teacher's persistence tier with a Delete method added since
// LRU eviction needs to purge cold keys from disk.
type bboltStore struct {
	db *bolt.DB
}

func newBboltStore(path string) (Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bboltBucket))
		return err
	}); err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	log.Printf("[CACHE] persistent cache opened at %s", path)
	return &bboltStore{db: db}, nil
}

func (s *bboltStore) Get(key string) (string, bool) {
	var value string
	var found bool
	_ = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bboltBucket))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			value = string(v)
			found = true
		}
		return nil
	})
	return value, found
}

func (s *bboltStore) Set(key, value string) {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bboltBucket))
		if b == nil {
			return nil
		}
		return b.Put([]byte(key), []byte(value))
	}); err != nil {
		log.Printf("[CACHE] bbolt Set error: %v", err)
	}
}

func (s *bboltStore) Delete(key string) {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bboltBucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	}); err != nil {
		log.Printf("[CACHE] bbolt Delete error: %v", err)
	}
}

func (s *bboltStore) Close() error {
	return s.db.Close()
}
