package shape

import (
	"fmt"
	"regexp"
	"strconv"
)

// Match checks subject against spec and returns the first mismatch found,
// depth-first. See FromValue for the accepted subject types.
func Match(spec Spec, subject any) error {
	node, err := FromValue(subject)
	if err != nil {
		return err
	}
	return MatchNode(spec, node)
}

// MatchNode checks an already decoded node against spec.
func MatchNode(spec Spec, node Node) error {
	return matchLevel(spec, node, "$")
}

func matchLevel(spec Spec, node Node, path string) error {
	for _, el := range spec {
		var err error
		switch e := el.(type) {
		case Key:
			_, err = lookup(spec, node, path, string(e))
		case Field:
			err = matchField(spec, e, node, path)
		case Each:
			err = matchEach(spec, e, node, path)
		case Elements:
			err = matchElements(spec, e, node, path)
		default:
			err = fmt.Errorf("shape: unsupported element %T at %s", el, path)
		}
		if err != nil {
			return err
		}
	}

	if node.Kind() == KindMapping {
		for _, key := range node.Keys() {
			if !spec.declares(key) {
				return &UnexpectedKeyError{Path: path, Key: key, Expected: spec, Actual: node}
			}
		}
	}
	return nil
}

// lookup fetches key from a mapping node, reporting a type mismatch for
// anything that is not a mapping.
func lookup(spec Spec, node Node, path, key string) (Node, error) {
	if node.Kind() != KindMapping {
		return Node{}, &TypeMismatchError{Path: path, Want: KindMapping, Got: node.Kind(), Expected: spec, Actual: node}
	}
	child, ok := node.Lookup(key)
	if !ok {
		return Node{}, &MissingKeyError{Path: path, Key: key, Expected: spec, Actual: node}
	}
	return child, nil
}

func matchField(spec Spec, f Field, node Node, path string) error {
	child, err := lookup(spec, node, path, f.Name)
	if err != nil {
		return err
	}
	return matchLevel(f.Spec, child, keyPath(path, f.Name))
}

func matchEach(spec Spec, e Each, node Node, path string) error {
	if node.Kind() != KindSequence {
		return &TypeMismatchError{Path: path, Want: KindSequence, Got: node.Kind(), Expected: spec, Actual: node}
	}
	for i, item := range node.Items() {
		itemPath := indexPath(path, i)
		child, err := lookup(spec, item, itemPath, e.Name)
		if err != nil {
			return err
		}
		if err := matchLevel(e.Spec, child, keyPath(itemPath, e.Name)); err != nil {
			return err
		}
	}
	return nil
}

func matchElements(spec Spec, e Elements, node Node, path string) error {
	if node.Kind() != KindSequence {
		return &TypeMismatchError{Path: path, Want: KindSequence, Got: node.Kind(), Expected: spec, Actual: node}
	}
	for i, item := range node.Items() {
		if err := matchLevel(e.Spec, item, indexPath(path, i)); err != nil {
			return err
		}
	}
	return nil
}

var plainKey = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func keyPath(path, key string) string {
	if plainKey.MatchString(key) {
		return path + "." + key
	}
	return path + "[" + strconv.Quote(key) + "]"
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
