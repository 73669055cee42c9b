package beans

import (
	"fmt"
	"reflect"
)

// GetAs resolves name and asserts the result to T.
//
//	// Instead of: repo := f.GetBean("repo") followed by a type assertion
//	repo, err := beans.GetAs[UserRepository](f, "repo")
func GetAs[T any](f *Factory, name string, args ...any) (T, error) {
	var zero T
	inst, err := f.resolve(name, args)
	if err != nil {
		return zero, err
	}
	typed, ok := inst.(T)
	if !ok {
		return zero, &TypeMismatchError{Name: name, Required: TypeOf[T](), Actual: reflect.TypeOf(inst)}
	}
	return typed, nil
}

// MustGetAs is like GetAs but panics on any error.
func MustGetAs[T any](f *Factory, name string, args ...any) T {
	typed, err := GetAs[T](f, name, args...)
	if err != nil {
		panic(err)
	}
	return typed
}

// TypeOf returns the reflect.Type of T, including interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// TypeKey returns the package-qualified type name of v, useful as a stable
// bean name when beans are keyed by type.
//
//	name := beans.TypeKey((*UserRepository)(nil))  // "example.com/app.UserRepository"
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

func checkAssignable(name string, inst any, required reflect.Type) error {
	if required == nil {
		return fmt.Errorf("beans: nil required type for [%s]", name)
	}
	actual := reflect.TypeOf(inst)
	if actual == nil || !actual.AssignableTo(required) {
		return &TypeMismatchError{Name: name, Required: required, Actual: actual}
	}
	return nil
}
