// Package shape verifies that JSON documents have exactly the keys a
// declarative spec asks for, level by level.
//
// A Spec is the full requirement set for one structural level. Each of its
// elements is one of:
//
//	Key       the mapping must contain this key
//	Field     the key must exist and its value must match a nested Spec
//	Each      the subject is an array; the named field of every element
//	          must match a nested Spec
//	Elements  the subject is an array; every element must match a nested Spec
//
// Mappings are checked both ways: every declared key must be present and
// every present key must be declared by a Key or Field of the same level.
package shape

import "strings"

// Element is one requirement of a Spec level. The set of implementations is
// closed: Key, Field, Each and Elements.
type Element interface {
	element()
	String() string
}

// Spec is an ordered list of requirements for one structural level.
type Spec []Element

// Key requires the enclosing mapping to contain the key.
type Key string

// Field requires Name to exist in the enclosing mapping and its value to
// match Spec.
type Field struct {
	Name string
	Spec Spec
}

// Each treats the subject as an array, extracts Name from every element and
// matches each extracted value against Spec.
type Each struct {
	Name string
	Spec Spec
}

// Elements treats the subject as an array and matches every element
// against Spec.
type Elements struct {
	Spec Spec
}

func (Key) element()      {}
func (Field) element()    {}
func (Each) element()     {}
func (Elements) element() {}

// Keys builds a flat Spec of plain keys.
func Keys(names ...string) Spec {
	spec := make(Spec, 0, len(names))
	for _, name := range names {
		spec = append(spec, Key(name))
	}
	return spec
}

// Nest builds a Field element.
func Nest(name string, elems ...Element) Field {
	return Field{Name: name, Spec: append(Spec{}, elems...)}
}

// Project builds an Each element.
func Project(name string, elems ...Element) Each {
	return Each{Name: name, Spec: append(Spec{}, elems...)}
}

// Every builds an Elements element.
func Every(elems ...Element) Elements {
	return Elements{Spec: append(Spec{}, elems...)}
}

func (k Key) String() string { return string(k) }

func (f Field) String() string { return "{" + f.Name + ": " + f.Spec.String() + "}" }

func (e Each) String() string { return "{[" + e.Name + "]: " + e.Spec.String() + "}" }

func (e Elements) String() string { return e.Spec.String() }

func (s Spec) String() string {
	parts := make([]string, len(s))
	for i, el := range s {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// declares reports whether key is named by a Key or Field of this level.
// Each names are wrapped and never count as declarations of a mapping key.
func (s Spec) declares(key string) bool {
	for _, el := range s {
		switch e := el.(type) {
		case Key:
			if string(e) == key {
				return true
			}
		case Field:
			if e.Name == key {
				return true
			}
		}
	}
	return false
}
