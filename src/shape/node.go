package shape

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// Kind is the structural kind of a decoded JSON value.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindMapping
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is a decoded JSON value tagged with its Kind.
type Node struct {
	kind   Kind
	scalar any
	fields map[string]Node
	keys   []string
	items  []Node
}

// Decode parses JSON text into a Node. Trailing data after the first value
// is an error.
func Decode(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return Node{}, &DecodeError{Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Node{}, &DecodeError{Err: fmt.Errorf("unexpected data after top-level value")}
	}
	return build(v), nil
}

// FromValue converts a subject into a Node. Strings, byte slices and
// json.RawMessage are parsed as JSON text; any other value is encoded with
// encoding/json first, so maps, slices and structs with json tags all work.
func FromValue(subject any) (Node, error) {
	switch v := subject.(type) {
	case Node:
		return v, nil
	case *Node:
		if v == nil {
			return Node{}, nil
		}
		return *v, nil
	case string:
		return Decode([]byte(v))
	case []byte:
		return Decode(v)
	case json.RawMessage:
		return Decode(v)
	}

	data, err := json.Marshal(subject)
	if err != nil {
		return Node{}, &DecodeError{Err: fmt.Errorf("encode %T: %w", subject, err)}
	}
	return Decode(data)
}

func build(v any) Node {
	switch t := v.(type) {
	case nil:
		return Node{kind: KindNull}
	case map[string]any:
		n := Node{
			kind:   KindMapping,
			fields: make(map[string]Node, len(t)),
			keys:   make([]string, 0, len(t)),
		}
		for k, child := range t {
			n.fields[k] = build(child)
			n.keys = append(n.keys, k)
		}
		sort.Strings(n.keys)
		return n
	case []any:
		n := Node{kind: KindSequence, items: make([]Node, len(t))}
		for i, child := range t {
			n.items[i] = build(child)
		}
		return n
	default:
		return Node{kind: KindScalar, scalar: t}
	}
}

// Kind returns the structural kind of the node.
func (n Node) Kind() Kind { return n.kind }

// Lookup returns the value stored under key of a mapping node.
func (n Node) Lookup(key string) (Node, bool) {
	child, ok := n.fields[key]
	return child, ok
}

// Keys returns the keys of a mapping node in sorted order.
func (n Node) Keys() []string { return n.keys }

// Items returns the elements of a sequence node.
func (n Node) Items() []Node { return n.items }

// Len returns the number of keys or elements.
func (n Node) Len() int {
	switch n.kind {
	case KindMapping:
		return len(n.keys)
	case KindSequence:
		return len(n.items)
	}
	return 0
}

// Value converts the node back into plain Go values (map[string]any, []any,
// json.Number, string, bool, nil).
func (n Node) Value() any {
	switch n.kind {
	case KindMapping:
		m := make(map[string]any, len(n.fields))
		for k, child := range n.fields {
			m[k] = child.Value()
		}
		return m
	case KindSequence:
		s := make([]any, len(n.items))
		for i, child := range n.items {
			s[i] = child.Value()
		}
		return s
	case KindScalar:
		return n.scalar
	}
	return nil
}

// String renders the node as compact JSON.
func (n Node) String() string {
	data, err := json.Marshal(n.Value())
	if err != nil {
		return fmt.Sprintf("%v", n.Value())
	}
	return string(data)
}
