package testkit

import (
	"fmt"
	"strings"
)

// fakeT records failures instead of failing the surrounding test.
type fakeT struct {
	errors []string
	failed bool
}

func (f *fakeT) Errorf(format string, args ...any) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}

func (f *fakeT) FailNow() { f.failed = true }

func (f *fakeT) Helper() {}

func (f *fakeT) output() string { return strings.Join(f.errors, "\n") }
