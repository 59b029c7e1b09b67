package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"staticlint/internal/engine/signature"
)

// Toggle is a boolean setting that tolerates a value of the wrong type.
// A wrongly typed value is kept for Notifications and the default applies.
type Toggle struct {
	set     bool
	value   bool
	invalid interface{}
}

func BoolToggle(v bool) Toggle {
	return Toggle{set: true, value: v}
}

// Enabled returns the configured value, or def when unset or invalid.
func (t Toggle) Enabled(def bool) bool {
	if t.set {
		return t.value
	}
	return def
}

// Invalid returns the raw value when it was not a boolean.
func (t Toggle) Invalid() (interface{}, bool) {
	return t.invalid, t.invalid != nil
}

func (t *Toggle) UnmarshalTOML(v interface{}) error {
	if b, ok := v.(bool); ok {
		*t = BoolToggle(b)
		return nil
	}
	*t = Toggle{invalid: v}
	return nil
}

func (t *Toggle) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!bool" {
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*t = BoolToggle(b)
		return nil
	}
	*t = Toggle{invalid: node.Value}
	if node.Kind != yaml.ScalarNode {
		t.invalid = node.Tag
	}
	return nil
}

// MethodSource is either a StringList or a CommaSeparated string.
type MethodSource interface {
	Specs() []string
	isMethodSource()
}

// StringList is a method list written as an array.
type StringList []string

func (l StringList) Specs() []string { return append([]string(nil), l...) }
func (StringList) isMethodSource()   {}

// CommaSeparated is a method list written as one string.
type CommaSeparated string

func (c CommaSeparated) Specs() []string { return signature.SplitList(string(c)) }
func (CommaSeparated) isMethodSource()   {}

// MethodSpecs holds the `methods` option of EnforceStaticImport.
type MethodSpecs struct {
	Source  MethodSource
	invalid string
}

// Specs resolves the configured form into one list of signature specs.
func (m MethodSpecs) Specs() []string {
	if m.Source == nil {
		return nil
	}
	return m.Source.Specs()
}

func (m MethodSpecs) Invalid() (string, bool) {
	return m.invalid, m.invalid != ""
}

func (m *MethodSpecs) UnmarshalTOML(v interface{}) error {
	switch val := v.(type) {
	case string:
		*m = MethodSpecs{Source: CommaSeparated(val)}
	case []interface{}:
		list := make(StringList, 0, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				*m = MethodSpecs{invalid: fmt.Sprintf("methods[%d] has type %T", i, item)}
				return nil
			}
			list = append(list, s)
		}
		*m = MethodSpecs{Source: list}
	default:
		*m = MethodSpecs{invalid: fmt.Sprintf("methods has type %T", v)}
	}
	return nil
}

func (m *MethodSpecs) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*m = MethodSpecs{Source: CommaSeparated(node.Value)}
	case yaml.SequenceNode:
		list := make(StringList, 0, len(node.Content))
		for i, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				*m = MethodSpecs{invalid: fmt.Sprintf("methods[%d] is not a scalar", i)}
				return nil
			}
			list = append(list, item.Value)
		}
		*m = MethodSpecs{Source: list}
	default:
		*m = MethodSpecs{invalid: "methods is a mapping"}
	}
	return nil
}

type ImportRuleSet struct {
	Active              Toggle           `toml:"active" yaml:"active"`
	EnforceStaticImport StaticImportRule `toml:"EnforceStaticImport" yaml:"EnforceStaticImport"`
}

type StaticImportRule struct {
	Active  Toggle      `toml:"active" yaml:"active"`
	Methods MethodSpecs `toml:"methods" yaml:"methods"`
}

type MicronautRuleSet struct {
	Active                   Toggle                `toml:"active" yaml:"active"`
	RequireSecuredAnnotation SecuredAnnotationRule `toml:"RequireSecuredAnnotation" yaml:"RequireSecuredAnnotation"`
}

type SecuredAnnotationRule struct {
	Active              Toggle   `toml:"active" yaml:"active"`
	EndpointAnnotations []string `toml:"endpoint_annotations" yaml:"endpoint_annotations"`
	SecurityAnnotations []string `toml:"security_annotations" yaml:"security_annotations"`
}

var (
	DefaultEndpointAnnotations = []string{"Get", "Post", "Put", "Delete", "Patch", "Head", "Options", "Trace"}
	DefaultSecurityAnnotations = []string{"Secured", "PermitAll", "RolesAllowed", "DenyAll"}
)

func normalizeAnnotations(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimPrefix(strings.TrimSpace(name), "@")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
