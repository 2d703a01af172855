package requests

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// Authenticator logs a session in as a role
type Authenticator interface {
	Login(s *Session, role string) error
}

// AuthenticatorFunc adapts a function to Authenticator
type AuthenticatorFunc func(s *Session, role string) error

func (f AuthenticatorFunc) Login(s *Session, role string) error { return f(s, role) }

// ErrNoCredentials is returned for a role the Authenticator cannot log in
var ErrNoCredentials = errors.New("no credentials for role")

// FormLogin posts per-role credentials to the application's login route
// and keeps the cookies it sets
type FormLogin struct {
	Path        string
	Credentials map[string]url.Values
}

func (f FormLogin) Login(s *Session, role string) error {
	creds, ok := f.Credentials[role]
	if !ok {
		return fmt.Errorf("%w %q", ErrNoCredentials, role)
	}

	resp, err := s.Do(http.MethodPost, f.Path, Params{Values: creds})
	if err != nil {
		return err
	}
	if resp.Status >= http.StatusBadRequest {
		return fmt.Errorf("login rejected: %s", resp)
	}
	if len(s.jar.Cookies(baseURL)) == 0 {
		return fmt.Errorf("login set no cookie: %s", resp)
	}
	return nil
}

// TokenLogin mints a token per role and attaches it to the session, as a
// cookie named Cookie or, when Header is set, as a bearer token
type TokenLogin struct {
	Issue  func(role string) (string, error)
	Cookie string
	Header bool
}

func (l TokenLogin) Login(s *Session, role string) error {
	if l.Issue == nil {
		return errors.New("TokenLogin.Issue is nil")
	}
	token, err := l.Issue(role)
	if err != nil {
		return err
	}

	if l.Header {
		s.SetHeader("Authorization", "Bearer "+token)
		return nil
	}
	if l.Cookie == "" {
		return errors.New("TokenLogin needs a Cookie name or Header")
	}
	s.SetCookie(&http.Cookie{Name: l.Cookie, Value: token, Path: "/"})
	return nil
}
