package beans

// BeanDefinition is the opaque descriptor supplied by a DefinitionSource.
// The factory never inspects it; it is handed unchanged to the Instantiator.
type BeanDefinition any

// DefinitionSource supplies the BeanDefinition for a name.
type DefinitionSource interface {
	// Lookup returns the definition registered under name, or false.
	// It must not have side effects visible to the factory.
	Lookup(name string) (BeanDefinition, bool)
}

// Instantiator builds a new instance from a definition.
// args are the caller's construction arguments, possibly empty.
type Instantiator interface {
	Create(name string, def BeanDefinition, args []any) (any, error)
}

// DefinitionSourceFunc adapts a plain function to DefinitionSource.
type DefinitionSourceFunc func(name string) (BeanDefinition, bool)

func (fn DefinitionSourceFunc) Lookup(name string) (BeanDefinition, bool) { return fn(name) }

// InstantiatorFunc adapts a plain function to Instantiator.
//
//	beans.InstantiatorFunc(func(name string, def beans.BeanDefinition, args []any) (any, error) {
//	    return &Service{Name: name}, nil
//	})
type InstantiatorFunc func(name string, def BeanDefinition, args []any) (any, error)

func (fn InstantiatorFunc) Create(name string, def BeanDefinition, args []any) (any, error) {
	return fn(name, def, args)
}
