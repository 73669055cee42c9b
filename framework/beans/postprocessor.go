package beans

import "sync"

// PostProcessor is an opaque lifecycle hook handle. The factory stores
// hooks in registration order and never calls them.
type PostProcessor any

// BeanPostProcessor is the shape an initialization hook is expected to take
// once an initialization pipeline exists. Registering a value of this type
// has no effect on resolution today.
type BeanPostProcessor interface {
	PostProcessBeforeInitialization(bean any, name string) (any, error)
	PostProcessAfterInitialization(bean any, name string) (any, error)
}

// PostProcessorRegistry is an append-only, ordered list of hooks.
type PostProcessorRegistry struct {
	mu         sync.RWMutex
	processors []PostProcessor
}

// NewPostProcessorRegistry creates an empty registry.
func NewPostProcessorRegistry() *PostProcessorRegistry {
	return &PostProcessorRegistry{}
}

// Register appends hook. Registering the same hook twice keeps both entries.
func (r *PostProcessorRegistry) Register(hook PostProcessor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processors = append(r.processors, hook)
}

// List returns a snapshot of the hooks in registration order.
func (r *PostProcessorRegistry) List() []PostProcessor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PostProcessor, len(r.processors))
	copy(out, r.processors)
	return out
}

// Len returns the number of registered hooks.
func (r *PostProcessorRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.processors)
}
