package loom

import "sync"

// instanceCache stores constructed instances keyed by service name. Each
// entry carries its own construction lock so that concurrent resolutions
// of the same name perform exactly one factory invocation, with later
// callers blocking until the first completes and then reading its result.
//
// A failed construction leaves the entry unbuilt: the error is returned to
// the caller and the next resolution attempts construction again. A built
// entry is never overwritten.
type instanceCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	order   []string // names in construction-completion order, for LIFO disposal
}

type cacheEntry struct {
	mu    sync.Mutex
	built bool
	value any
}

func newInstanceCache() *instanceCache {
	return &instanceCache{
		entries: make(map[string]*cacheEntry),
	}
}

// getOrCreate returns the cached instance for name, constructing it with
// build if absent. The entry lock is held across build, which is what
// gives the at-most-once guarantee; build must not resolve name itself
// (the resolution stack rejects cycles before this point is reached).
func (c *instanceCache) getOrCreate(name string, build func() (any, error)) (any, error) {
	c.mu.Lock()
	entry, ok := c.entries[name]
	if !ok {
		entry = &cacheEntry{}
		c.entries[name] = entry
	}
	c.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.built {
		return entry.value, nil
	}

	value, err := build()
	if err != nil {
		return nil, err
	}

	entry.value = value
	entry.built = true

	c.mu.Lock()
	c.order = append(c.order, name)
	c.mu.Unlock()

	return value, nil
}

// get returns the cached instance for name, if one has been built. It
// blocks while a construction for name is in flight.
func (c *instanceCache) get(name string) (any, bool) {
	c.mu.Lock()
	entry, ok := c.entries[name]
	c.mu.Unlock()

	if !ok {
		return nil, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.value, entry.built
}

// len returns the number of built entries.
func (c *instanceCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// drain empties the cache and returns the built instances in reverse
// construction order, ready for LIFO disposal.
func (c *instanceCache) drain() []any {
	c.mu.Lock()
	entries := c.entries
	order := c.order
	c.entries = make(map[string]*cacheEntry)
	c.order = nil
	c.mu.Unlock()

	instances := make([]any, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		entry := entries[order[i]]
		entry.mu.Lock()
		if entry.built {
			instances = append(instances, entry.value)
		}
		entry.mu.Unlock()
	}
	return instances
}
