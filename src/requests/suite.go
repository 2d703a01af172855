package requests

import (
	"net/http"
	"testing"

	"github.com/khabaroff/webtestkit/src/logging"
	"github.com/khabaroff/webtestkit/src/testkit"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// T is the part of *testing.T a Suite drives
type T interface {
	testkit.TestingT
	Logf(format string, args ...any)
	Run(name string, f func(t *testing.T)) bool
}

// Suite runs requests against Handler for the anonymous visitor and each role
type Suite struct {
	Handler   http.Handler
	Roles     []string
	Login     Authenticator
	LoginPath string
	// Logger receives request diagnostics; defaults to the "requests" component logger
	Logger *zerolog.Logger
}

// NewSession returns a fresh session for role, "" meaning anonymous
func (s *Suite) NewSession(role string) *Session {
	return newSession(s.Handler, s.Login, s.logger(), role)
}

func (s *Suite) logger() zerolog.Logger {
	if s.Logger != nil {
		return *s.Logger
	}
	return logging.NewLogger("requests")
}

// GET runs a GET request for every role
func (s *Suite) GET(t T, name, path string, opts *Options) {
	t.Helper()
	s.Run(t, name, http.MethodGet, path, opts)
}

// POST runs a POST request for every role
func (s *Suite) POST(t T, name, path string, opts *Options) {
	t.Helper()
	s.Run(t, name, http.MethodPost, path, opts)
}

// PUT runs a PUT request for every role
func (s *Suite) PUT(t T, name, path string, opts *Options) {
	t.Helper()
	s.Run(t, name, http.MethodPut, path, opts)
}

// DELETE runs a DELETE request for every role
func (s *Suite) DELETE(t T, name, path string, opts *Options) {
	t.Helper()
	s.Run(t, name, http.MethodDelete, path, opts)
}

// Run sends method path once per role in subtests "<name> <role>", the
// anonymous visitor first
func (s *Suite) Run(t T, name, method, path string, opts *Options) {
	t.Helper()

	if opts == nil {
		t.Logf("%s", Usage)
		t.Errorf("requests: %s %s %s: options are required", name, method, path)
		t.FailNow()
		return
	}

	roles := append([]string{""}, s.Roles...)
	for _, role := range roles {
		label := role
		if label == "" {
			label = NoRole
		}
		t.Run(name+" "+label, func(t *testing.T) {
			s.runRole(t, role, method, path, opts)
		})
	}
}

// runRole is one subtest: login, params, request, difference and assertions
func (s *Suite) runRole(t testing.TB, role, method, path string, opts *Options) {
	t.Helper()
	session := s.NewSession(role)

	if opts.Setup != nil {
		opts.Setup(t, session)
	} else if role != "" {
		require.NoError(t, session.LoginAs(role))
	}

	params := Params{}
	if opts.Params != nil {
		params = opts.Params(t, session)
	}

	var before int
	if opts.Difference != nil {
		var err error
		before, err = opts.Difference.Count.Count(t.Context())
		require.NoError(t, err, "counting %s before request", opts.Difference.Label)
	}

	resp, err := session.Do(method, path, params)
	require.NoError(t, err)

	if d := opts.Difference; d != nil {
		after, err := d.Count.Count(t.Context())
		require.NoError(t, err, "counting %s after request", d.Label)
		assert.Equal(t, d.Expected(session.RoleName()), after-before,
			"%s difference for %s", d.Label, session.RoleName())
	}

	handled := false
	if opts.Assertions != nil {
		handled = opts.Assertions(t, session, resp)
	}
	if handled {
		return
	}

	if role != "" {
		assert.Equal(t, http.StatusUnauthorized, resp.Status,
			"assert response(401) not satisfied in default %s handler: %s", role, resp)
		return
	}
	AssertRequireLogin(t, resp, s.LoginPath, "require login expected when not logged in")
}
