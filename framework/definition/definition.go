// Package definition provides DefinitionSource implementations for the
// beans factory: an in-memory Registry, a YAML/JSON file Reader, and a
// Watcher that reloads a Registry when its file changes.
package definition

// Definition describes how to build one bean.
//
//	beans:
//	  - name: mailer
//	    type: smtp.Mailer
//	    args: ["smtp.example.com", 587]
//	    properties:
//	      From: noreply@example.com
type Definition struct {
	Name        string         `yaml:"name" json:"name"`
	Type        string         `yaml:"type" json:"type"`
	Args        []any          `yaml:"args,omitempty" json:"args,omitempty"`
	Properties  map[string]any `yaml:"properties,omitempty" json:"properties,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
}

// Document is the top-level shape of a definitions file.
type Document struct {
	Beans []Definition `yaml:"beans" json:"beans"`
}
