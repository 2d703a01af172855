package testkit

import (
	"sort"

	"github.com/khabaroff/webtestkit/src/attrs"
	"github.com/stretchr/testify/assert"
)

// ModelValidator reports model validity per attribute.
// *validation.Validator satisfies it.
type ModelValidator interface {
	Errors(model any) map[string]string
}

// ModelBuilder builds named fixtures with attribute overrides.
// *factory.Registry satisfies it.
type ModelBuilder interface {
	Build(name string, overrides map[string]any) (any, error)
}

// AssertAttributes asserts that every named attribute of model equals the
// expected value. Numeric values of different types compare by value.
func AssertAttributes(t TestingT, expected map[string]any, model any) bool {
	t.Helper()

	names := make([]string, 0, len(expected))
	for name := range expected {
		names = append(names, name)
	}
	sort.Strings(names)

	ok := true
	for _, name := range names {
		actual, err := attrs.Get(model, name)
		if err != nil {
			t.Errorf("attribute %q of %T: %v", name, model, err)
			ok = false
			continue
		}
		if !assert.ObjectsAreEqualValues(expected[name], actual) {
			t.Errorf("attribute %q of %T: expected %#v but was %#v", name, model, expected[name], actual)
			ok = false
		}
	}
	return ok
}

// AssertInvalidBecauseOf asserts that model is valid, that storing invalid
// in attribute makes it invalid with an error on that attribute, and then
// restores the original value. A nil invalid value stores the zero value.
func AssertInvalidBecauseOf(t TestingT, v ModelValidator, model any, attribute string, invalid any) bool {
	t.Helper()
	return AssertInvalidBecauseOfEach(t, v, model, []string{attribute}, []any{invalid})
}

// AssertInvalidBecauseOfEach runs AssertInvalidBecauseOf for every
// attribute, pairing attributes[i] with invalid[i]. Missing invalid values
// are nil.
func AssertInvalidBecauseOfEach(t TestingT, v ModelValidator, model any, attributes []string, invalid []any) bool {
	t.Helper()

	if errs := v.Errors(model); len(errs) > 0 {
		t.Errorf("sanity test failed: model %T invalid: %v", model, errs)
		return false
	}

	ok := true
	for i, attribute := range attributes {
		var value any
		if i < len(invalid) {
			value = invalid[i]
		}
		if !invalidates(t, v, model, attribute, value) {
			ok = false
		}
	}
	return ok
}

func invalidates(t TestingT, v ModelValidator, model any, attribute string, value any) bool {
	t.Helper()

	original, err := attrs.Get(model, attribute)
	if err != nil {
		t.Errorf("attribute %q of %T: %v", attribute, model, err)
		return false
	}
	name, err := attrs.Name(model, attribute)
	if err != nil {
		t.Errorf("attribute %q of %T: %v", attribute, model, err)
		return false
	}
	if err := attrs.Set(model, attribute, value); err != nil {
		t.Errorf("attribute %q of %T: %v", attribute, model, err)
		return false
	}
	defer func() {
		if err := attrs.Set(model, attribute, original); err != nil {
			t.Errorf("restore attribute %q of %T: %v", attribute, model, err)
		}
	}()

	errs := v.Errors(model)
	if len(errs) == 0 {
		t.Errorf("changing %s to %#v did not invalidate model %T", attribute, value, model)
		return false
	}
	if _, found := errs[name]; !found {
		t.Errorf("changing %s to %#v invalidated model %T without an error on %s: %v", attribute, value, model, name, errs)
		return false
	}
	return true
}

// AssertAllValid asserts that the factory model is valid with attribute
// set to each of values.
func AssertAllValid(t TestingT, v ModelValidator, b ModelBuilder, factory, attribute string, values []any) bool {
	t.Helper()

	ok := true
	for _, value := range values {
		model, err := b.Build(factory, map[string]any{attribute: value})
		if err != nil {
			t.Errorf("build %s with %s=%#v: %v", factory, attribute, value, err)
			ok = false
			continue
		}
		if errs := v.Errors(model); len(errs) > 0 {
			t.Errorf("%s with %s=%#v should be valid: %v", factory, attribute, value, errs)
			ok = false
		}
	}
	return ok
}

// AssertAllInvalid asserts that each of values invalidates a default
// factory model through attribute.
func AssertAllInvalid(t TestingT, v ModelValidator, b ModelBuilder, factory, attribute string, values []any) bool {
	t.Helper()

	ok := true
	for _, value := range values {
		model, err := b.Build(factory, nil)
		if err != nil {
			t.Errorf("build %s: %v", factory, err)
			ok = false
			continue
		}
		if !AssertInvalidBecauseOf(t, v, model, attribute, value) {
			ok = false
		}
	}
	return ok
}
