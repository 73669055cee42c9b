package definition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a definitions file encoding.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	default:
		return "", fmt.Errorf("definition: unsupported file extension %q", filepath.Ext(path))
	}
}

// ReadFile reads every definition in the file at path.
func ReadFile(path string) ([]Definition, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("definition: open %s: %w", path, err)
	}
	defer f.Close()

	defs, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("definition: %s: %w", path, err)
	}
	return defs, nil
}

// Read decodes a definitions document from r.
func Read(r io.Reader, format Format) ([]Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc Document
	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		normalizeNumbers(doc.Beans)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	for i, d := range doc.Beans {
		if d.Name == "" {
			return nil, fmt.Errorf("bean #%d: missing name", i)
		}
		if d.Type == "" {
			return nil, fmt.Errorf("bean %q: missing type", d.Name)
		}
	}
	return doc.Beans, nil
}

// normalizeNumbers turns json.Number values into int or float64 so JSON
// and YAML documents produce the same argument shapes.
func normalizeNumbers(defs []Definition) {
	for i := range defs {
		defs[i].Args = NormalizeArgs(defs[i].Args)
		for k, v := range defs[i].Properties {
			defs[i].Properties[k] = normalizeNumber(v)
		}
	}
}

// NormalizeArgs replaces json.Number values in args, at any depth, with int
// or float64.
// args is modified in place and returned.
func NormalizeArgs(args []any) []any {
	for i, a := range args {
		args[i] = normalizeNumber(a)
	}
	return args
}

// normalizeNumber converts json.Number values, descending into nested
// lists and maps.
func normalizeNumber(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i)
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		for i, e := range x {
			x[i] = normalizeNumber(e)
		}
		return x
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeNumber(e)
		}
		return x
	default:
		return v
	}
}

// LoadFile reads path and installs its definitions in r, replacing any
// earlier load of the same file.
func LoadFile(r *Registry, path string) error {
	defs, err := ReadFile(path)
	if err != nil {
		return err
	}
	return r.ReplaceOrigin(filepath.Clean(path), defs...)
}
