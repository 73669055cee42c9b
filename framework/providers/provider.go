package providers

import (
	"fmt"

	"github.com/km-arc/go-beans/framework/beans"
	"github.com/km-arc/go-beans/framework/definition"
	"github.com/km-arc/go-beans/framework/instantiate"
)

// ── BeanProvider interface ────────────────────────────────────────────────────

// BeanProvider contributes bean definitions and constructors to an
// application, and may seed the factory once it exists.
//
//	type MailProvider struct{ providers.BaseProvider }
//
//	func (p *MailProvider) Register(defs *definition.Registry, ctors *instantiate.Constructors) error {
//	    if err := ctors.Register("smtp.Mailer", smtp.NewMailer); err != nil {
//	        return err
//	    }
//	    return defs.Register(definition.Definition{Name: "mailer", Type: "smtp.Mailer"})
//	}
type BeanProvider interface {
	// Register adds definitions and constructors. The factory does not
	// exist yet, so nothing can be resolved here.
	Register(defs *definition.Registry, ctors *instantiate.Constructors) error

	// Boot is called once the factory is built, in registration order.
	Boot(f *beans.Factory) error
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Register and Boot.
type BaseProvider struct{}

func (p *BaseProvider) Register(*definition.Registry, *instantiate.Constructors) error { return nil }
func (p *BaseProvider) Boot(*beans.Factory) error                                     { return nil }

// ── Registry ──────────────────────────────────────────────────────────────────

// Registry runs providers' Register phase as they are added and their Boot
// phase once the factory is available.
type Registry struct {
	defs       *definition.Registry
	ctors      *instantiate.Constructors
	providers  []BeanProvider
	registered map[BeanProvider]bool
	factory    *beans.Factory
}

// NewRegistry creates a provider registry feeding defs and ctors.
func NewRegistry(defs *definition.Registry, ctors *instantiate.Constructors) *Registry {
	return &Registry{
		defs:       defs,
		ctors:      ctors,
		registered: make(map[BeanProvider]bool),
	}
}

// Register adds a provider and calls its Register method. Adding the same
// provider twice is a no-op. A provider added after Boot is booted at once.
func (r *Registry) Register(p BeanProvider) error {
	if r.registered[p] {
		return nil
	}
	if err := p.Register(r.defs, r.ctors); err != nil {
		return fmt.Errorf("providers: register %T: %w", p, err)
	}
	r.registered[p] = true
	r.providers = append(r.providers, p)

	if r.factory != nil {
		if err := p.Boot(r.factory); err != nil {
			return fmt.Errorf("providers: boot %T: %w", p, err)
		}
	}
	return nil
}

// Boot calls Boot on every provider in registration order. Only the first
// call has an effect.
func (r *Registry) Boot(f *beans.Factory) error {
	if r.factory != nil {
		return nil
	}
	r.factory = f
	for _, p := range r.providers {
		if err := p.Boot(f); err != nil {
			return fmt.Errorf("providers: boot %T: %w", p, err)
		}
	}
	return nil
}

// Booted reports whether Boot has been called.
func (r *Registry) Booted() bool { return r.factory != nil }

// Providers returns the registered providers in order.
func (r *Registry) Providers() []BeanProvider {
	out := make([]BeanProvider, len(r.providers))
	copy(out, r.providers)
	return out
}
