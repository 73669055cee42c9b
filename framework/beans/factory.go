package beans

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ── Outcome ───────────────────────────────────────────────────────────────────

// Outcome is the terminal state of a single resolution.
type Outcome int

const (
	CacheHit Outcome = iota + 1
	Created
	Failed
)

func (o Outcome) String() string {
	switch o {
	case CacheHit:
		return "cache_hit"
	case Created:
		return "created"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ResolveObserver is notified once per resolution with its terminal state.
type ResolveObserver interface {
	ObserveResolve(name string, outcome Outcome, elapsed time.Duration)
}

// ── Options ───────────────────────────────────────────────────────────────────

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger used for resolution events.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithObserver registers an observer for resolution outcomes.
func WithObserver(o ResolveObserver) Option {
	return func(f *Factory) { f.observer = o }
}

// WithSingletonCache makes the factory use an existing cache instead of a
// fresh one.
func WithSingletonCache(c *SingletonCache) Option {
	return func(f *Factory) {
		if c != nil {
			f.singletons = c
		}
	}
}

// WithID overrides the generated container ID.
func WithID(id string) Option {
	return func(f *Factory) { f.id = id }
}

// ── Factory ───────────────────────────────────────────────────────────────────

// Factory resolves beans by name: it probes the singleton cache, and on a
// miss looks up the definition, delegates construction to the Instantiator
// and publishes the result.
//
// Concurrent misses for the same name share one construction; different
// names resolve independently. Failures are never cached.
type Factory struct {
	id           string
	source       DefinitionSource
	instantiator Instantiator
	singletons   *SingletonCache
	processors   *PostProcessorRegistry
	inflight     singleflight.Group
	logger       *zap.Logger
	observer     ResolveObserver
}

// New creates a Factory over the given collaborators.
//
//	f := beans.New(registry, constructors, beans.WithLogger(logger))
//	svc, err := beans.GetAs[*UserService](f, "userService")
func New(source DefinitionSource, instantiator Instantiator, opts ...Option) *Factory {
	if source == nil {
		panic("beans: New requires a DefinitionSource")
	}
	if instantiator == nil {
		panic("beans: New requires an Instantiator")
	}
	f := &Factory{
		id:           uuid.NewString(),
		source:       source,
		instantiator: instantiator,
		singletons:   NewSingletonCache(),
		processors:   NewPostProcessorRegistry(),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With(zap.String("container", f.id))
	return f
}

// ID returns the identifier of this container instance.
func (f *Factory) ID() string { return f.id }

// ── Resolution ────────────────────────────────────────────────────────────────

// GetBean resolves name. args are forwarded to the Instantiator only when
// the bean is created by this call; on a cache hit they are ignored.
func (f *Factory) GetBean(name string, args ...any) (any, error) {
	return f.resolve(name, args)
}

// GetBeanOfType resolves name and checks that the instance is assignable to
// required. Use an interface type from reflect.TypeOf((*I)(nil)).Elem() to
// require a capability rather than a concrete type.
func (f *Factory) GetBeanOfType(name string, required reflect.Type, args ...any) (any, error) {
	inst, err := f.resolve(name, args)
	if err != nil {
		return nil, err
	}
	if err := checkAssignable(name, inst, required); err != nil {
		return nil, err
	}
	return inst, nil
}

func (f *Factory) resolve(name string, args []any) (any, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	start := time.Now()

	if inst, ok := f.singletons.Get(name); ok {
		f.finish(name, CacheHit, start, nil)
		return inst, nil
	}

	created := false
	v, err, _ := f.inflight.Do(name, func() (any, error) {
		// Another caller may have published between our probe and Do.
		if inst, ok := f.singletons.Get(name); ok {
			return inst, nil
		}

		def, ok := f.source.Lookup(name)
		if !ok {
			return nil, &DefinitionNotFoundError{Name: name}
		}

		inst, err := f.create(name, def, args)
		if err != nil {
			return nil, &InstantiationError{Name: name, Err: err}
		}

		stored, added := f.singletons.Put(name, inst)
		created = added
		return stored, nil
	})
	if err != nil {
		f.finish(name, Failed, start, err)
		return nil, err
	}
	if created {
		f.finish(name, Created, start, nil)
	} else {
		f.finish(name, CacheHit, start, nil)
	}
	return v, nil
}

// create calls the Instantiator, turning a panic or a nil result into an error.
func (f *Factory) create(name string, def BeanDefinition, args []any) (inst any, err error) {
	defer func() {
		if r := recover(); r != nil {
			inst, err = nil, fmt.Errorf("instantiator panicked: %v", r)
		}
	}()
	inst, err = f.instantiator.Create(name, def, args)
	if err == nil && inst == nil {
		err = ErrNilInstance
	}
	return inst, err
}

func (f *Factory) finish(name string, outcome Outcome, start time.Time, err error) {
	elapsed := time.Since(start)
	if f.observer != nil {
		f.observer.ObserveResolve(name, outcome, elapsed)
	}
	fields := []zap.Field{
		zap.String("bean", name),
		zap.Stringer("outcome", outcome),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		f.logger.Warn("bean resolution failed", append(fields, zap.Error(err))...)
		return
	}
	f.logger.Debug("bean resolved", fields...)
}

// ── Singletons ────────────────────────────────────────────────────────────────

// RegisterSingleton places a pre-built instance in the cache. It returns
// false and leaves the cache untouched if name is already cached.
func (f *Factory) RegisterSingleton(name string, instance any) (bool, error) {
	if name == "" {
		return false, ErrEmptyName
	}
	if instance == nil {
		return false, &InstantiationError{Name: name, Err: ErrNilInstance}
	}
	_, added := f.singletons.Put(name, instance)
	return added, nil
}

// ContainsSingleton reports whether name has already been resolved.
func (f *Factory) ContainsSingleton(name string) bool { return f.singletons.Contains(name) }

// ContainsBean reports whether name is cached or has a definition.
func (f *Factory) ContainsBean(name string) bool {
	if f.singletons.Contains(name) {
		return true
	}
	_, ok := f.source.Lookup(name)
	return ok
}

// SingletonNames returns resolved bean names in creation order.
func (f *Factory) SingletonNames() []string { return f.singletons.Names() }

// ── Post-processors ───────────────────────────────────────────────────────────

// RegisterPostProcessor appends a hook. It never fails.
func (f *Factory) RegisterPostProcessor(hook PostProcessor) { f.processors.Register(hook) }

// PostProcessors returns the registered hooks in registration order.
func (f *Factory) PostProcessors() []PostProcessor { return f.processors.List() }
