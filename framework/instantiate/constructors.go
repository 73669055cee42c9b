// Package instantiate provides a beans.Instantiator that builds beans by
// calling registered Go constructor functions through reflection.
package instantiate

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"sync"

	"github.com/km-arc/go-beans/framework/beans"
	"github.com/km-arc/go-beans/framework/definition"
)

var (
	// ErrUnknownType is returned when a definition names a type with no
	// registered constructor.
	ErrUnknownType = errors.New("instantiate: no constructor registered for type")

	// ErrArguments is returned when the supplied arguments do not fit the
	// constructor's parameters.
	ErrArguments = errors.New("instantiate: arguments do not match constructor")

	// ErrDefinition is returned when the definition is not a definition.Definition.
	ErrDefinition = errors.New("instantiate: unsupported bean definition")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type constructor struct {
	fn  reflect.Value
	typ reflect.Type
}

// Constructors maps definition types to constructor functions.
//
// A constructor is any func returning T or (T, error):
//
//	ctors := instantiate.New()
//	ctors.Register("smtp.Mailer", smtp.NewMailer)      // func(host string, port int) *Mailer
//	ctors.Register("time.Clock", func() Clock { return realClock{} })
type Constructors struct {
	mu    sync.RWMutex
	ctors map[string]constructor
}

var _ beans.Instantiator = (*Constructors)(nil)

// New creates an empty constructor registry.
func New() *Constructors {
	return &Constructors{ctors: make(map[string]constructor)}
}

// Register binds typeName to fn. It returns an error if fn is not a
// function with a supported result shape or typeName is already taken.
func (c *Constructors) Register(typeName string, fn any) error {
	if typeName == "" {
		return fmt.Errorf("instantiate: type name cannot be empty")
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Errorf("instantiate: constructor for %q must be a non-nil func, got %T", typeName, fn)
	}
	t := v.Type()
	switch {
	case t.NumOut() == 1 && t.Out(0) != errorType:
	case t.NumOut() == 2 && t.Out(1) == errorType:
	default:
		return fmt.Errorf("instantiate: constructor for %q must return T or (T, error), got %s", typeName, t)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.ctors[typeName]; exists {
		return fmt.Errorf("instantiate: constructor for %q already registered", typeName)
	}
	c.ctors[typeName] = constructor{fn: v, typ: t}
	return nil
}

// MustRegister is like Register but panics on error.
func (c *Constructors) MustRegister(typeName string, fn any) {
	if err := c.Register(typeName, fn); err != nil {
		panic(err)
	}
}

// Types returns the registered type names, sorted.
func (c *Constructors) Types() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.ctors))
	for name := range c.ctors {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Create implements beans.Instantiator. Caller args take precedence over
// the definition's default args; properties are applied after construction.
func (c *Constructors) Create(name string, def beans.BeanDefinition, args []any) (any, error) {
	d, err := asDefinition(def)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	ctor, ok := c.ctors[d.Type]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (bean %q)", ErrUnknownType, d.Type, name)
	}

	effective := args
	if len(effective) == 0 {
		effective = d.Args
	}

	in, err := buildArgs(ctor.typ, effective)
	if err != nil {
		return nil, fmt.Errorf("bean %q: %w", name, err)
	}

	out := ctor.fn.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, fmt.Errorf("bean %q: constructor %s: %w", name, d.Type, out[1].Interface().(error))
	}
	instance := out[0].Interface()

	if len(d.Properties) > 0 {
		if err := ApplyProperties(instance, d.Properties); err != nil {
			return nil, fmt.Errorf("bean %q: %w", name, err)
		}
	}
	return instance, nil
}

func asDefinition(def beans.BeanDefinition) (definition.Definition, error) {
	switch d := def.(type) {
	case definition.Definition:
		return d, nil
	case *definition.Definition:
		if d != nil {
			return *d, nil
		}
	}
	return definition.Definition{}, fmt.Errorf("%w: %T", ErrDefinition, def)
}

// buildArgs converts args into call values for a function of type t.
func buildArgs(t reflect.Type, args []any) ([]reflect.Value, error) {
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, fmt.Errorf("%w: want at least %d args, got %d", ErrArguments, fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("%w: want %d args, got %d", ErrArguments, fixed, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var want reflect.Type
		if i < fixed {
			want = t.In(i)
		} else {
			want = t.In(t.NumIn() - 1).Elem()
		}
		v, err := convert(a, want)
		if err != nil {
			return nil, fmt.Errorf("%w: arg %d: %v", ErrArguments, i, err)
		}
		in[i] = v
	}
	return in, nil
}

// convert makes a value of type want from a. Assignable values pass through;
// numeric and string kinds are converted when Go allows it.
func convert(a any, want reflect.Type) (reflect.Value, error) {
	if a == nil {
		switch want.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not a valid %s", want)
	}
	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(want) {
		return v, nil
	}
	if isNumber(v.Kind()) && isNumber(want.Kind()) {
		return convertNumber(v, want)
	}
	if v.Kind() == reflect.Slice && want.Kind() == reflect.Slice {
		out := reflect.MakeSlice(want, v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			e, err := convert(v.Index(i).Interface(), want.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %v", i, err)
			}
			out.Index(i).Set(e)
		}
		return out, nil
	}
	return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), want)
}

// convertNumber converts between numeric kinds, refusing any conversion
// that would truncate a fraction, drop a sign or overflow want.
func convertNumber(v reflect.Value, want reflect.Type) (reflect.Value, error) {
	target := reflect.Zero(want)
	switch {
	case isFloat(v.Kind()):
		f := v.Float()
		switch {
		case isFloat(want.Kind()):
			if target.OverflowFloat(f) {
				return reflect.Value{}, fmt.Errorf("%v overflows %s", f, want)
			}
		case math.Trunc(f) != f || math.IsInf(f, 0):
			return reflect.Value{}, fmt.Errorf("%v is not a whole number for %s", f, want)
		case isUnsigned(want.Kind()):
			if f < 0 || f >= math.Ldexp(1, 64) || target.OverflowUint(uint64(f)) {
				return reflect.Value{}, fmt.Errorf("%v overflows %s", f, want)
			}
		default:
			if f < math.MinInt64 || f >= math.Ldexp(1, 63) || target.OverflowInt(int64(f)) {
				return reflect.Value{}, fmt.Errorf("%v overflows %s", f, want)
			}
		}
	case isUnsigned(v.Kind()):
		u := v.Uint()
		switch {
		case isFloat(want.Kind()):
		case isUnsigned(want.Kind()):
			if target.OverflowUint(u) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", u, want)
			}
		default:
			if u > math.MaxInt64 || target.OverflowInt(int64(u)) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", u, want)
			}
		}
	default:
		i := v.Int()
		switch {
		case isFloat(want.Kind()):
		case isUnsigned(want.Kind()):
			if i < 0 || target.OverflowUint(uint64(i)) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", i, want)
			}
		default:
			if target.OverflowInt(i) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", i, want)
			}
		}
	}
	return v.Convert(want), nil
}

func isFloat(k reflect.Kind) bool { return k == reflect.Float32 || k == reflect.Float64 }

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
