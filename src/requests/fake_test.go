package requests

import (
	"fmt"
	"strings"
	"testing"
)

// recordingT captures failures and subtest names without running them.
// TB, when set, serves everything else (Context, Cleanup).
type recordingT struct {
	testing.TB

	errors   []string
	logs     []string
	subtests []string
	failed   bool
}

func (r *recordingT) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recordingT) FailNow() { r.failed = true }

func (r *recordingT) Helper() {}

func (r *recordingT) Logf(format string, args ...any) {
	r.logs = append(r.logs, fmt.Sprintf(format, args...))
}

func (r *recordingT) Run(name string, f func(t *testing.T)) bool {
	r.subtests = append(r.subtests, name)
	return true
}

func (r *recordingT) output() string { return strings.Join(r.errors, "\n") }
