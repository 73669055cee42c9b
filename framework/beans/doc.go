// Package beans provides a minimal object-lifecycle container: given a bean
// name it returns an instance that is created once and then cached.
//
// # Overview
//
// The Factory does not know how beans are described or built. Both are
// supplied at construction time:
//
//   - a DefinitionSource maps a name to an opaque BeanDefinition
//   - an Instantiator turns a name, definition and arguments into an instance
//
// Resolution of a name always follows the same path:
//
//  1. Probe: a cached instance is returned as is (CacheHit)
//  2. Resolve-Definition: a missing definition fails with ErrDefinitionNotFound
//  3. Instantiate: a construction failure fails with ErrInstantiation
//  4. Publish: the new instance is cached and returned (Created)
//
// Failures are not cached; the next call for the same name tries again.
//
// # Resolving
//
//	f := beans.New(source, instantiator)
//
//	// Untyped
//	raw, err := f.GetBean("mailer")
//
//	// With construction arguments (used only if this call creates the bean)
//	raw, err = f.GetBean("mailer", "smtp.example.com", 587)
//
//	// Typed (explicit check, returns ErrTypeMismatch instead of panicking)
//	mailer, err := beans.GetAs[*Mailer](f, "mailer")
//	sender, err := f.GetBeanOfType("mailer", beans.TypeOf[Sender]())
//
// # Post-processors
//
// Hooks registered with RegisterPostProcessor are kept in registration order
// and exposed through PostProcessors. The factory does not invoke them.
package beans
