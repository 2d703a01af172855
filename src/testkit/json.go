package testkit

import (
	"errors"

	"github.com/khabaroff/webtestkit/src/shape"
)

// AssertJSON asserts that subject has exactly the keys spec declares at
// every level. subject may be JSON text, a decoded value or any value that
// encodes to JSON.
func AssertJSON(t TestingT, spec shape.Spec, subject any, msgAndArgs ...any) bool {
	t.Helper()

	err := shape.Match(spec, subject)
	if err == nil {
		return true
	}
	if errors.Is(err, shape.ErrDecode) {
		t.Errorf("%s\n%v", message("response is not valid JSON", msgAndArgs...), err)
		return false
	}
	t.Errorf("%s\n%v", message("JSON shape mismatch", msgAndArgs...), err)
	return false
}

// RequireJSON is AssertJSON that stops the test on failure.
func RequireJSON(t TestingT, spec shape.Spec, subject any, msgAndArgs ...any) {
	t.Helper()
	if !AssertJSON(t, spec, subject, msgAndArgs...) {
		t.FailNow()
	}
}

// AssertJSONYAML is AssertJSON with the spec written in YAML.
func AssertJSONYAML(t TestingT, specYAML string, subject any, msgAndArgs ...any) bool {
	t.Helper()

	spec, err := shape.ParseYAML([]byte(specYAML))
	if err != nil {
		t.Errorf("invalid shape spec: %v", err)
		return false
	}
	return AssertJSON(t, spec, subject, msgAndArgs...)
}
