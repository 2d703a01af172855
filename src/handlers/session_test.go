package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/khabaroff/webtestkit/src/middleware"
	"github.com/khabaroff/webtestkit/src/models"
	"github.com/khabaroff/webtestkit/src/shape"
	"github.com/khabaroff/webtestkit/src/testkit"
)

func postForm(env *testEnv, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestHandleLoginPage(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

	assertStatusCode(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), `action="/login"`) {
		t.Errorf("expected login form, got %s", w.Body.String())
	}
}

func TestHandleLogin_Form(t *testing.T) {
	env := newTestEnv(t)

	t.Run("valid credentials redirect home with cookie", func(t *testing.T) {
		w := postForm(env, "/login", url.Values{"email": {"editor@example.com"}, "password": {"editor-password"}})

		assertStatusCode(t, w, http.StatusSeeOther)
		if loc := w.Header().Get("Location"); loc != "/notes" {
			t.Errorf("expected redirect to /notes, got %q", loc)
		}

		cookie := sessionCookie(w)
		if cookie == nil {
			t.Fatal("expected session cookie")
		}
		claims, err := env.sessions.Parse(cookie.Value)
		if err != nil {
			t.Fatalf("cookie does not parse: %v", err)
		}
		if claims.Role != models.RoleEditor {
			t.Errorf("expected editor role, got %s", claims.Role)
		}
	})

	t.Run("wrong password re-renders form", func(t *testing.T) {
		w := postForm(env, "/login", url.Values{"email": {"editor@example.com"}, "password": {"wrong"}})

		assertStatusCode(t, w, http.StatusUnauthorized)
		if !strings.Contains(w.Body.String(), "Invalid email or password.") {
			t.Errorf("expected error message, got %s", w.Body.String())
		}
		if sessionCookie(w) != nil {
			t.Error("expected no session cookie")
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		w := postForm(env, "/login", url.Values{"email": {"editor@example.com"}})
		assertStatusCode(t, w, http.StatusBadRequest)
	})
}

func TestHandleLogin_JSON(t *testing.T) {
	env := newTestEnv(t)

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		return w
	}

	w := send(`{"email":"editor@example.com","password":"editor-password"}`)
	assertStatusCode(t, w, http.StatusOK)
	testkit.AssertJSON(t, shape.Keys("token", "role", "expires_at"), w.Body.Bytes())

	w = send(`{"email":"editor@example.com","password":"nope"}`)
	assertStatusCode(t, w, http.StatusUnauthorized)
	assertJSONError(t, w, "invalid email or password")

	w = send(`{"email":""}`)
	assertStatusCode(t, w, http.StatusBadRequest)
}

func TestHandleLogout(t *testing.T) {
	env := newTestEnv(t)

	w := postForm(env, "/logout", url.Values{})

	assertStatusCode(t, w, http.StatusOK)
	cookie := sessionCookie(w)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Errorf("expected expired session cookie, got %+v", cookie)
	}
}
