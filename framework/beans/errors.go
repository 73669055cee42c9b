package beans

import (
	"errors"
	"fmt"
	"reflect"
)

// ── Sentinels ─────────────────────────────────────────────────────────────────

var (
	// ErrEmptyName is returned when a bean is requested with an empty name.
	ErrEmptyName = errors.New("beans: bean name must not be empty")

	// ErrDefinitionNotFound matches every *DefinitionNotFoundError.
	ErrDefinitionNotFound = errors.New("beans: no bean definition found")

	// ErrInstantiation matches every *InstantiationError.
	ErrInstantiation = errors.New("beans: bean instantiation failed")

	// ErrTypeMismatch matches every *TypeMismatchError.
	ErrTypeMismatch = errors.New("beans: bean type mismatch")

	// ErrNilInstance is the cause recorded when an Instantiator returns
	// neither an instance nor an error.
	ErrNilInstance = errors.New("instantiator returned a nil instance")
)

// ── Typed errors ──────────────────────────────────────────────────────────────

// DefinitionNotFoundError reports that the DefinitionSource has no entry for Name.
type DefinitionNotFoundError struct {
	Name string
}

func (e *DefinitionNotFoundError) Error() string {
	return fmt.Sprintf("beans: no bean definition found for [%s]", e.Name)
}

func (e *DefinitionNotFoundError) Is(target error) bool { return target == ErrDefinitionNotFound }

// InstantiationError wraps the failure reported by the Instantiator.
// The bean stays unresolved, so a later call may try again.
type InstantiationError struct {
	Name string
	Err  error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("beans: failed to instantiate [%s]: %v", e.Name, e.Err)
}

func (e *InstantiationError) Unwrap() error { return e.Err }

func (e *InstantiationError) Is(target error) bool { return target == ErrInstantiation }

// TypeMismatchError reports that a resolved bean does not satisfy the type
// the caller asked for.
type TypeMismatchError struct {
	Name     string
	Required reflect.Type
	Actual   reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("beans: [%s] is %s, not assignable to %s", e.Name, typeName(e.Actual), typeName(e.Required))
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
