package metadata

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// FlatteningCache memoizes FlattenInheritedDirectiveMetadata per reference.
//
// Thread Safety:
//
//	FlatteningCache is safe for concurrent use. Concurrent misses for the
//	same reference share one flattening. Cached records are shared between
//	callers and must be treated as read-only.
type FlatteningCache struct {
	reader  MetadataReader
	mu      sync.RWMutex
	entries map[Reference]*DirectiveMeta
	flight  singleflight.Group

	hits   int64
	misses int64
}

// NewFlatteningCache creates a cache over reader.
func NewFlatteningCache(reader MetadataReader) *FlatteningCache {
	return &FlatteningCache{
		reader:  reader,
		entries: map[Reference]*DirectiveMeta{},
	}
}

// GetDirectiveMetadata returns the flattened metadata of ref, so a
// FlatteningCache can stand in for the reader it wraps.
func (c *FlatteningCache) GetDirectiveMetadata(ref Reference) *DirectiveMeta {
	c.mu.RLock()
	meta, ok := c.entries[ref]
	c.mu.RUnlock()
	if ok {
		atomic.AddInt64(&c.hits, 1)
		return meta
	}
	atomic.AddInt64(&c.misses, 1)

	result, _, _ := c.flight.Do(ref.String(), func() (interface{}, error) {
		flattened := FlattenInheritedDirectiveMetadata(c.reader, ref)
		c.mu.Lock()
		c.entries[ref] = flattened
		c.mu.Unlock()
		return flattened, nil
	})
	return result.(*DirectiveMeta)
}

// Stats returns the number of cache hits and misses so far.
func (c *FlatteningCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}
