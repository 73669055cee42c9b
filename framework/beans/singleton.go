package beans

import "sync"

// SingletonCache is the name-keyed store of created beans.
// Entries are never evicted or replaced: the first Put for a name wins.
type SingletonCache struct {
	mu      sync.RWMutex
	objects map[string]any
	order   []string
}

// NewSingletonCache creates an empty cache.
func NewSingletonCache() *SingletonCache {
	return &SingletonCache{objects: make(map[string]any)}
}

// Get returns the cached instance for name.
func (c *SingletonCache) Get(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	inst, ok := c.objects[name]
	return inst, ok
}

// Put stores instance under name unless the name is already cached.
// It returns the instance that is cached after the call and whether this
// call was the one that added it.
func (c *SingletonCache) Put(name string, instance any) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.objects[name]; ok {
		return existing, false
	}
	c.objects[name] = instance
	c.order = append(c.order, name)
	return instance, true
}

// Contains reports whether name has a cached instance.
func (c *SingletonCache) Contains(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Names returns cached names in the order they were added.
func (c *SingletonCache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of cached instances.
func (c *SingletonCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.objects)
}
