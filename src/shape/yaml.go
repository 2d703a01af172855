package shape

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseYAML reads a Spec written as YAML (or JSON, which is a subset).
//
//	- id
//	- name
//	- author: [id, email]      # Field
//	- ? [tags]                 # Each, also written "[tags]": [...]
//	  : [label]
//	- [id]                     # Elements
//
// A mapping with several entries yields one element per entry. A scalar
// value is shorthand for a one-key level and an empty value for an empty
// level.
func ParseYAML(data []byte) (Spec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("shape: parse yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Spec{}, nil
	}
	return parseLevel(doc.Content[0])
}

// MustParseYAML is ParseYAML that panics on error, for package-level specs.
func MustParseYAML(data string) Spec {
	spec, err := ParseYAML([]byte(data))
	if err != nil {
		panic(err)
	}
	return spec
}

func parseLevel(n *yaml.Node) (Spec, error) {
	n = resolve(n)
	switch n.Kind {
	case yaml.SequenceNode:
		spec := Spec{}
		for _, child := range n.Content {
			elems, err := parseElements(child)
			if err != nil {
				return nil, err
			}
			spec = append(spec, elems...)
		}
		return spec, nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return Spec{}, nil
		}
		return Spec{Key(n.Value)}, nil
	case yaml.MappingNode:
		return parseElements(n)
	}
	return nil, fmt.Errorf("shape: line %d: unsupported yaml node", n.Line)
}

func parseElements(n *yaml.Node) ([]Element, error) {
	n = resolve(n)
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == "" {
			return nil, fmt.Errorf("shape: line %d: empty key", n.Line)
		}
		return []Element{Key(n.Value)}, nil
	case yaml.SequenceNode:
		nested, err := parseLevel(n)
		if err != nil {
			return nil, err
		}
		return []Element{Elements{Spec: nested}}, nil
	case yaml.MappingNode:
		elems := make([]Element, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			el, err := parseEntry(n.Content[i], n.Content[i+1])
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
		}
		return elems, nil
	}
	return nil, fmt.Errorf("shape: line %d: unsupported yaml node", n.Line)
}

func parseEntry(key, value *yaml.Node) (Element, error) {
	nested, err := parseLevel(value)
	if err != nil {
		return nil, err
	}

	key = resolve(key)
	switch key.Kind {
	case yaml.SequenceNode:
		if len(key.Content) != 1 || resolve(key.Content[0]).Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("shape: line %d: projected key must hold exactly one name", key.Line)
		}
		return Each{Name: resolve(key.Content[0]).Value, Spec: nested}, nil
	case yaml.ScalarNode:
		name := key.Value
		if len(name) > 2 && strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
			return Each{Name: name[1 : len(name)-1], Spec: nested}, nil
		}
		if name == "" {
			return nil, fmt.Errorf("shape: line %d: empty key", key.Line)
		}
		return Field{Name: name, Spec: nested}, nil
	}
	return nil, fmt.Errorf("shape: line %d: unsupported key", key.Line)
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
