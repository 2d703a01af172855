package requests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/khabaroff/webtestkit/src/testkit"
)

// Response is a recorded handler response
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Location returns the redirect target, if any
func (r *Response) Location() string {
	return r.Header.Get("Location")
}

// DecodeJSON unmarshals the body into v
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

func (r *Response) String() string {
	return fmt.Sprintf("%d %s", r.Status, r.Body)
}

// IsRedirect reports a 3xx status
func (r *Response) IsRedirect() bool {
	return r.Status >= 300 && r.Status < 400
}

// AssertRequireLogin checks that resp redirects to loginPath
func AssertRequireLogin(t testkit.TestingT, resp *Response, loginPath string, msgAndArgs ...any) bool {
	t.Helper()

	if resp.Status != http.StatusFound && resp.Status != http.StatusSeeOther {
		t.Errorf("%sexpected redirect to %s, got response %s", prefix(msgAndArgs), loginPath, resp)
		return false
	}

	target, err := url.Parse(resp.Location())
	if err != nil || target.Path != loginPath {
		t.Errorf("%sexpected redirect to %s, got redirect to %q", prefix(msgAndArgs), loginPath, resp.Location())
		return false
	}
	return true
}

func prefix(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...) + ": "
	}
	return fmt.Sprintf("%+v", msgAndArgs) + ": "
}
