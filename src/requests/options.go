package requests

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/khabaroff/webtestkit/src/records"
)

// NoRole names the anonymous visitor in subtest names and Difference.ByRole
const NoRole = "none"

// FormatJS marks a request as an XMLHttpRequest
const FormatJS = "js"

// Params describe the request sent for one role
type Params struct {
	// Values go to the query string for GET and DELETE and to a form body
	// for POST and PUT
	Values url.Values
	// JSON, when set, is sent as the POST or PUT body instead of Values
	JSON any
	// Format is sent as the format parameter; "js" also makes an XHR
	Format string
	// Headers are added to the request
	Headers http.Header
	// PathParams fill ":name" segments of the path
	PathParams map[string]string
}

// Difference expects Count to change by ByRole[role] across the request.
// Roles missing from ByRole expect no change.
type Difference struct {
	Label  string
	Count  records.Counter
	ByRole map[string]int
}

// Expected returns the change expected for role
func (d *Difference) Expected(role string) int {
	return d.ByRole[role]
}

// Options configure a Suite run. Options must not be nil.
type Options struct {
	// Setup runs before the request and replaces the default login, so it
	// must log in itself: if s.Role != "" { s.LoginAs(s.Role) }
	Setup func(t testing.TB, s *Session)
	// Params builds the request parameters, after Setup
	Params func(t testing.TB, s *Session) Params
	// Difference is checked around the request
	Difference *Difference
	// Assertions inspects the response. Returning false applies the default
	// assertion for the role.
	Assertions func(t testing.TB, s *Session, resp *Response) bool
}

// Usage is reported when a run is given no options
const Usage = `usage: suite.GET/POST/PUT/DELETE(t, name, path, &requests.Options{...})

options must not be nil; every field is optional:

  Setup: runs before each role with a fresh session. It replaces the
    default login, so log in yourself:
      Setup: func(t testing.TB, s *requests.Session) {
          // prepare records here
          if s.Role != "" {
              require.NoError(t, s.LoginAs(s.Role))
          }
      },
  Params: builds the request parameters for each role.
  Difference: a counter and the expected change per role. The default
    change is 0. Use "none" for the anonymous visitor:
      Difference: &requests.Difference{Label: "notes", Count: counter,
          ByRole: map[string]int{"none": 0, "admin": 1}},
  Assertions: runs after the request:
      Assertions: func(t testing.TB, s *requests.Session, resp *requests.Response) bool {
          switch s.Role {
          case "admin":
              return assert.Equal(t, http.StatusOK, resp.Status)
          }
          return false
      },
    return true when the response was handled, or the default assertion
    applies: 401 for roles, a redirect to the login page for "none".`
