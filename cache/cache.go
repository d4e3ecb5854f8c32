// Package cache memoizes scores computed while ranking guesses.
//
// A Cache belongs to one ranking call. It is keyed by the exact candidate
// set a score was computed on, so a score for one pruned set is never
// returned for another. Throw it away when the call is done.
package cache

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

// Rough bytes per entry: the key, the value and map overhead.
const entrySize = 96

// Key identifies a score. Guess is empty for scores that depend only on the
// set, such as the best follow-up entropy.
type Key struct {
	Guess string
	Set   uint64
	Size  int
	K     int
	G     int
}

// SetKey builds a key for guess over words. Order of words doesn't matter;
// the key is computed on a sorted copy.
func SetKey(guess string, words []string, k, g int) Key {
	sorted := append([]string(nil), words...)
	sort.Strings(sorted)
	d := xxhash.New()
	for _, w := range sorted {
		d.Write([]byte(w))
		d.Write([]byte{0})
	}
	return Key{Guess: guess, Set: d.Sum64(), Size: len(words), K: k, G: g}
}

type Cache struct {
	sync.RWMutex
	entries    map[Key]float64
	maxEntries int

	lookups atomic.Uint64
	hits    atomic.Uint64
	dropped atomic.Uint64
}

// New creates a cache holding at most maxEntries scores. Once full, new
// scores are not stored.
func New(maxEntries int) *Cache {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &Cache{entries: make(map[Key]float64), maxEntries: maxEntries}
}

// NewForMemory sizes a cache to a fraction of the system's memory.
func NewForMemory(fractionOfMemory float64) *Cache {
	totalMem := memory.TotalMemory()
	n := int(fractionOfMemory * float64(totalMem) / entrySize)
	log.Debug().Int("max-entries", n).
		Float64("fraction", fractionOfMemory).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("score-cache-size")
	return New(n)
}

// Get returns a stored score. A nil cache never has anything.
func (c *Cache) Get(k Key) (float64, bool) {
	if c == nil {
		return 0, false
	}
	c.lookups.Add(1)
	c.RLock()
	v, ok := c.entries[k]
	c.RUnlock()
	if ok {
		c.hits.Add(1)
	}
	return v, ok
}

// Put stores a score. It is a no-op on a nil or full cache.
func (c *Cache) Put(k Key, v float64) {
	if c == nil {
		return
	}
	c.Lock()
	defer c.Unlock()
	if _, ok := c.entries[k]; !ok && len(c.entries) >= c.maxEntries {
		c.dropped.Add(1)
		return
	}
	c.entries[k] = v
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.RLock()
	defer c.RUnlock()
	return len(c.entries)
}

// Stats returns the number of lookups, hits, and scores not stored
// because the cache was full.
func (c *Cache) Stats() (lookups, hits, dropped uint64) {
	if c == nil {
		return 0, 0, 0
	}
	return c.lookups.Load(), c.hits.Load(), c.dropped.Load()
}
