// Package testkit provides assertion helpers for web application tests:
// JSON response shapes, slice comparison, model attributes and validity,
// and record lifecycle checks.
//
// Every Assert* helper reports failures through Errorf so the test keeps
// running, and returns whether it was satisfied. Require* variants stop the
// test with FailNow.
package testkit

import (
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// TestingT is the subset of *testing.T the helpers need.
type TestingT interface {
	Errorf(format string, args ...any)
	FailNow()
	Helper()
}

// message returns the caller supplied failure message, or fallback.
func message(fallback string, msgAndArgs ...any) string {
	switch len(msgAndArgs) {
	case 0:
		return fallback
	case 1:
		if s, ok := msgAndArgs[0].(string); ok {
			return s
		}
		return fmt.Sprintf("%+v", msgAndArgs[0])
	default:
		if format, ok := msgAndArgs[0].(string); ok {
			return fmt.Sprintf(format, msgAndArgs[1:]...)
		}
		return fmt.Sprintf("%+v", msgAndArgs)
	}
}

// diff renders a (-want +got) diff, or nothing when cmp cannot handle the
// values.
func diff(want, got any) (out string) {
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()
	d := cmp.Diff(want, got, cmp.Exporter(func(reflect.Type) bool { return true }))
	if d == "" {
		return ""
	}
	return "diff (-want +got):\n" + d
}
