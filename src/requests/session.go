package requests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/khabaroff/webtestkit/src/logging"
	"github.com/rs/zerolog"
)

// baseURL scopes the cookie jar; requests never leave the process
var baseURL = &url.URL{Scheme: "http", Host: "example.com", Path: "/"}

// Session is one visitor: its cookies, default headers and role
type Session struct {
	// Role is the role under test, "" for the anonymous visitor
	Role string
	// Data carries values from Setup to Params and Assertions
	Data map[string]any

	handler http.Handler
	login   Authenticator
	logger  zerolog.Logger
	jar     *cookiejar.Jar
	header  http.Header
}

func newSession(handler http.Handler, login Authenticator, logger zerolog.Logger, role string) *Session {
	// cookiejar.New only fails for a bad PublicSuffixList
	jar, _ := cookiejar.New(nil)
	return &Session{
		Role:    role,
		Data:    make(map[string]any),
		handler: handler,
		login:   login,
		logger:  logging.ForRole(logger, roleLabel(role)),
		jar:     jar,
		header:  make(http.Header),
	}
}

// RoleName is Role, or NoRole for the anonymous visitor
func (s *Session) RoleName() string {
	if s.Role == "" {
		return NoRole
	}
	return s.Role
}

// LoginAs logs the session in as role with the suite's Authenticator
func (s *Session) LoginAs(role string) error {
	if s.login == nil {
		return fmt.Errorf("requests: no Authenticator configured to log in as %q", role)
	}
	if err := s.login.Login(s, role); err != nil {
		return fmt.Errorf("requests: login as %s: %w", role, err)
	}
	return nil
}

// SetCookie stores a cookie sent with every later request
func (s *Session) SetCookie(c *http.Cookie) {
	s.jar.SetCookies(baseURL, []*http.Cookie{c})
}

// Cookie returns the named cookie, if the session holds it
func (s *Session) Cookie(name string) (*http.Cookie, bool) {
	for _, c := range s.jar.Cookies(baseURL) {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// SetHeader sets a header sent with every later request
func (s *Session) SetHeader(key, value string) {
	s.header.Set(key, value)
}

// Do sends one request through the handler and records the response.
// A panic in the handler is logged with the session role and re-raised.
func (s *Session) Do(method, path string, p Params) (resp *Response, err error) {
	req, err := s.newRequest(method, path, p)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("method", method).
				Str("path", req.URL.Path).
				Interface("panic", r).
				Msg("exception encountered during request")
			panic(r)
		}
	}()

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	result := rec.Result()
	s.jar.SetCookies(baseURL, result.Cookies())

	resp = &Response{
		Status: rec.Code,
		Header: rec.Header(),
		Body:   rec.Body.Bytes(),
	}

	s.logger.Debug().
		Str("method", method).
		Str("path", req.URL.RequestURI()).
		Int("status", resp.Status).
		Msg("request executed")

	return resp, nil
}

// roleLabel names the visitor in log lines
func roleLabel(role string) string {
	if role == "" {
		return "no role"
	}
	return role
}

func (s *Session) newRequest(method, path string, p Params) (*http.Request, error) {
	path, err := expandPath(path, p.PathParams)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	for k, v := range p.Values {
		values[k] = append([]string(nil), v...)
	}
	if p.Format != "" {
		values.Set("format", p.Format)
	}

	var body io.Reader
	contentType := ""
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		if p.JSON != nil {
			raw, err := json.Marshal(p.JSON)
			if err != nil {
				return nil, fmt.Errorf("requests: encode JSON params: %w", err)
			}
			body = bytes.NewReader(raw)
			contentType = "application/json"
			if len(values) > 0 {
				path = withQuery(path, values)
			}
		} else {
			body = strings.NewReader(values.Encode())
			contentType = "application/x-www-form-urlencoded"
		}
	default:
		path = withQuery(path, values)
	}

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if p.Format == FormatJS {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		req.Header.Set("Accept", "text/javascript, application/json")
	}
	for k, v := range s.header {
		req.Header[k] = append([]string(nil), v...)
	}
	for k, v := range p.Headers {
		req.Header[k] = append([]string(nil), v...)
	}
	for _, c := range s.jar.Cookies(baseURL) {
		req.AddCookie(c)
	}
	return req, nil
}

// expandPath replaces ":name" segments with url-escaped params
func expandPath(path string, params map[string]string) (string, error) {
	if len(params) == 0 {
		return path, nil
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		value, ok := params[seg[1:]]
		if !ok {
			return "", fmt.Errorf("requests: no value for path parameter %s in %s", seg, path)
		}
		segments[i] = url.PathEscape(value)
	}
	return strings.Join(segments, "/"), nil
}

func withQuery(path string, values url.Values) string {
	if len(values) == 0 {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + values.Encode()
}
