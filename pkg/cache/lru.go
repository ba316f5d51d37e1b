// Package cache keeps report bytes in memory across comparisons run by a
// long-lived process.
package cache

import (
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultMaxSize is the default memory budget of an LRU (64 MB).
const DefaultMaxSize = 64 * 1024 * 1024

const bytesPerKB = 1024.0

// evictionSampleSize is how many tail entries are weighed per eviction.
const evictionSampleSize = 5

// Key identifies one version of a file. A rewrite changes Size or ModTime
// and therefore misses.
type Key struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// LRU is a size-bounded cache of file contents.
type LRU struct {
	mu          sync.Mutex
	entries     map[Key]*lruEntry
	head        *lruEntry // most recently used
	tail        *lruEntry
	maxSize     int64
	currentSize int64

	hits   atomic.Int64
	misses atomic.Int64
}

type lruEntry struct {
	key         Key
	data        []byte
	accessCount int64
	prev        *lruEntry
	next        *lruEntry
}

// evictionCost favors evicting large entries that are rarely read.
func (e *lruEntry) evictionCost() float64 {
	sizeKB := float64(len(e.data)) / bytesPerKB
	if sizeKB < 1 {
		sizeKB = 1
	}

	return float64(e.accessCount) / sizeKB
}

// NewLRU creates a cache holding at most maxSize bytes. A non-positive
// maxSize selects DefaultMaxSize.
func NewLRU(maxSize int64) *LRU {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	return &LRU{
		entries: make(map[Key]*lruEntry),
		maxSize: maxSize,
	}
}

// Get returns the cached bytes for key.
func (c *LRU) Get(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)

		return nil, false
	}

	c.hits.Add(1)

	entry.accessCount++
	c.moveToFront(entry)

	return entry.data, true
}

// Put stores a copy of data under key. Data larger than the whole budget is
// not cached. Older versions of the same path are dropped.
func (c *LRU) Put(key Key, data []byte) {
	size := int64(len(data))
	if size > c.maxSize {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		entry.accessCount++
		c.moveToFront(entry)

		return
	}

	for k, entry := range c.entries {
		if k.Path == key.Path {
			c.remove(entry)
		}
	}

	for c.currentSize+size > c.maxSize && c.tail != nil {
		c.evictLowestCost()
	}

	entry := &lruEntry{
		key:         key,
		data:        append([]byte(nil), data...),
		accessCount: 1,
	}

	c.entries[key] = entry
	c.currentSize += size
	c.addToFront(entry)
}

// Stats holds cache counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Entries     int
	CurrentSize int64
	MaxSize     int64
}

// HitRate returns hits over lookups, or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}

	return float64(s.Hits) / float64(total)
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("hits", s.Hits),
		slog.Int64("misses", s.Misses),
		slog.String("hit_rate", strconv.FormatFloat(s.HitRate(), 'f', 3, 64)),
		slog.Int("entries", s.Entries),
		slog.String("size", humanize.IBytes(uint64(s.CurrentSize))),
		slog.String("max_size", humanize.IBytes(uint64(s.MaxSize))),
	)
}

// Stats returns a snapshot of the counters.
func (c *LRU) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Entries:     len(c.entries),
		CurrentSize: c.currentSize,
		MaxSize:     c.maxSize,
	}
}

func (c *LRU) moveToFront(entry *lruEntry) {
	if entry == c.head {
		return
	}

	c.unlink(entry)
	c.addToFront(entry)
}

func (c *LRU) addToFront(entry *lruEntry) {
	entry.prev = nil
	entry.next = c.head

	if c.head != nil {
		c.head.prev = entry
	}

	c.head = entry

	if c.tail == nil {
		c.tail = entry
	}
}

func (c *LRU) unlink(entry *lruEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		c.head = entry.next
	}

	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		c.tail = entry.prev
	}
}

func (c *LRU) remove(entry *lruEntry) {
	c.unlink(entry)
	delete(c.entries, entry.key)
	c.currentSize -= int64(len(entry.data))
}

// evictLowestCost weighs up to evictionSampleSize entries from the tail and
// removes the cheapest.
func (c *LRU) evictLowestCost() {
	victim := c.tail
	lowest := victim.evictionCost()

	entry := victim.prev
	for i := 1; entry != nil && i < evictionSampleSize; i++ {
		if cost := entry.evictionCost(); cost < lowest {
			lowest = cost
			victim = entry
		}

		entry = entry.prev
	}

	c.remove(victim)
}
