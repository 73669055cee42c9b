package definition

import (
	"fmt"
	"sort"
	"sync"

	"github.com/km-arc/go-beans/framework/beans"
)

// Registry is an in-memory, concurrency-safe DefinitionSource.
//
// Every definition remembers the origin it was added from (empty for
// Register). ReplaceOrigin swaps the definitions of one origin, such as a
// file, without touching the others.
type Registry struct {
	mu     sync.RWMutex
	defs   map[string]Definition
	origin map[string]string
}

var _ beans.DefinitionSource = (*Registry)(nil)

// NewRegistry creates a Registry holding defs.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition), origin: make(map[string]string)}
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds def. Names must be non-empty and unique.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("definition: name cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("definition: %q already registered", def.Name)
	}
	r.defs[def.Name] = def
	r.origin[def.Name] = ""
	return nil
}

// Replace swaps the whole definition set. Either all defs are installed or,
// on a validation error, the current set is left unchanged.
func (r *Registry) Replace(defs ...Definition) error {
	next, err := index(defs)
	if err != nil {
		return err
	}
	origin := make(map[string]string, len(next))
	for name := range next {
		origin[name] = ""
	}
	r.mu.Lock()
	r.defs, r.origin = next, origin
	r.mu.Unlock()
	return nil
}

// ReplaceOrigin replaces every definition previously added from origin with
// defs. A name already owned by a different origin is rejected and nothing
// changes.
func (r *Registry) ReplaceOrigin(origin string, defs ...Definition) error {
	next, err := index(defs)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for name := range next {
		if owner, exists := r.origin[name]; exists && owner != origin {
			return fmt.Errorf("definition: %q already registered from %q", name, displayOrigin(owner))
		}
	}
	for name, owner := range r.origin {
		if owner == origin {
			delete(r.defs, name)
			delete(r.origin, name)
		}
	}
	for name, d := range next {
		r.defs[name] = d
		r.origin[name] = origin
	}
	return nil
}

func index(defs []Definition) (map[string]Definition, error) {
	next := make(map[string]Definition, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("definition: name cannot be empty")
		}
		if _, exists := next[d.Name]; exists {
			return nil, fmt.Errorf("definition: %q declared twice", d.Name)
		}
		next[d.Name] = d
	}
	return next, nil
}

func displayOrigin(o string) string {
	if o == "" {
		return "code"
	}
	return o
}

// Lookup implements beans.DefinitionSource.
func (r *Registry) Lookup(name string) (beans.BeanDefinition, bool) {
	def, ok := r.Get(name)
	if !ok {
		return nil, false
	}
	return def, true
}

// Get returns the typed definition for name.
func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Contains reports whether name has a definition.
func (r *Registry) Contains(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns all definition names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.defs))
	for name := range r.defs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}
