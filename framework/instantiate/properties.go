package instantiate

import (
	"fmt"
	"reflect"
	"sort"
)

// ApplyProperties sets literal values on the exported fields of the struct
// instance points to. A field matches a key by its `bean:"key"` tag or, if
// untagged, by its name.
func ApplyProperties(instance any, props map[string]any) error {
	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("instantiate: properties need a non-nil struct pointer, got %T", instance)
	}
	s := v.Elem()
	t := s.Type()

	fields := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		key := f.Tag.Get("bean")
		if key == "-" {
			continue
		}
		if key == "" {
			key = f.Name
		}
		fields[key] = i
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		idx, ok := fields[key]
		if !ok {
			return fmt.Errorf("instantiate: %s has no property %q", t, key)
		}
		field := s.Field(idx)
		val, err := convert(props[key], field.Type())
		if err != nil {
			return fmt.Errorf("instantiate: property %q: %v", key, err)
		}
		field.Set(val)
	}
	return nil
}
