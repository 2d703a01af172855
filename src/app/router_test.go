package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/khabaroff/webtestkit/src/middleware"
	"github.com/khabaroff/webtestkit/src/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFixture(t *testing.T) *Fixture {
	t.Helper()
	fixture, err := NewFixture(zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(fixture.Close)
	return fixture
}

func TestFixture_SeedsOneUserPerRole(t *testing.T) {
	fixture := newTestFixture(t)

	assert.Equal(t, models.AllRoles, fixture.Roles())
	for _, role := range fixture.Roles() {
		user := fixture.User(role)
		require.NotNil(t, user, role)
		assert.Equal(t, role, user.Role)

		creds := fixture.Credentials()[role]
		_, err := fixture.Users.Authenticate(context.Background(), creds.Get("email"), creds.Get("password"))
		assert.NoError(t, err, role)
	}

	_, err := fixture.IssueToken("owner")
	assert.Error(t, err)
}

func TestRouter_Health(t *testing.T) {
	fixture := newTestFixture(t)

	w := httptest.NewRecorder()
	fixture.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"memory"`)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_InfoCountsRecords(t *testing.T) {
	fixture := newTestFixture(t)
	_, err := fixture.CreateNote(context.Background(), "counted")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	fixture.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/info", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"records":{"notes":1,"users":3}`)
}

func TestRouter_RoleMatrix(t *testing.T) {
	fixture := newTestFixture(t)
	note, err := fixture.CreateNote(context.Background(), "matrix")
	require.NoError(t, err)
	notePath := "/notes/" + note.ID.String()

	routes := []struct {
		method  string
		path    string
		body    string
		allowed []string
	}{
		{http.MethodGet, "/notes", "", models.AllRoles},
		{http.MethodGet, notePath, "", models.AllRoles},
		{http.MethodPost, "/notes", `{"title":"t"}`, []string{models.RoleAdmin, models.RoleEditor}},
		{http.MethodPut, notePath, `{"title":"t"}`, []string{models.RoleAdmin, models.RoleEditor}},
		{http.MethodPost, notePath + "/archive", "", []string{models.RoleAdmin, models.RoleEditor}},
	}

	for _, rt := range routes {
		for _, role := range append([]string{""}, models.AllRoles...) {
			t.Run(rt.method+" "+rt.path+" "+role, func(t *testing.T) {
				var req *http.Request
				if rt.body != "" {
					req = httptest.NewRequest(rt.method, rt.path, strings.NewReader(rt.body))
					req.Header.Set("Content-Type", "application/json")
				} else {
					req = httptest.NewRequest(rt.method, rt.path, nil)
				}
				if role != "" {
					token, err := fixture.IssueToken(role)
					require.NoError(t, err)
					req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
				}

				w := httptest.NewRecorder()
				fixture.Router.ServeHTTP(w, req)

				switch {
				case role == "":
					assert.Equal(t, http.StatusFound, w.Code)
					assert.Equal(t, "/login", w.Header().Get("Location"))
				case slices.Contains(rt.allowed, role):
					assert.Less(t, w.Code, 300, w.Body.String())
				default:
					assert.Equal(t, http.StatusUnauthorized, w.Code)
				}
			})
		}
	}
}

func TestRouter_DisabledRoles(t *testing.T) {
	fixture := newTestFixture(t)
	router := NewRouter(Deps{
		Notes:          fixture.Notes,
		Users:          fixture.Users,
		Sessions:       fixture.Sessions,
		Logger:         zerolog.Nop(),
		LoginRateLimit: 100,
		Roles:          []string{models.RoleAdmin, models.RoleViewer},
	})
	t.Cleanup(router.Close)

	send := func(method, role string) int {
		req := httptest.NewRequest(method, "/notes", strings.NewReader(`{"title":"t"}`))
		req.Header.Set("Content-Type", "application/json")
		token, err := fixture.IssueToken(role)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodGet, models.RoleViewer))
	assert.Equal(t, http.StatusUnauthorized, send(http.MethodGet, models.RoleEditor))
	assert.Equal(t, http.StatusUnauthorized, send(http.MethodPost, models.RoleEditor))
	assert.Equal(t, http.StatusCreated, send(http.MethodPost, models.RoleAdmin))
}

func TestEnabled(t *testing.T) {
	roles := []string{models.RoleAdmin, models.RoleViewer}

	assert.Equal(t, []string{models.RoleAdmin}, enabled(roles, models.RoleAdmin, models.RoleEditor))
	assert.Empty(t, enabled([]string{models.RoleViewer}, models.RoleAdmin))
}

func TestRouter_DeleteIsAdminOnly(t *testing.T) {
	fixture := newTestFixture(t)
	note, err := fixture.CreateNote(context.Background(), "delete me")
	require.NoError(t, err)

	send := func(role string) int {
		req := httptest.NewRequest(http.MethodDelete, "/notes/"+note.ID.String(), nil)
		token, err := fixture.IssueToken(role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		fixture.Router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, send(models.RoleEditor))
	assert.Equal(t, http.StatusOK, send(models.RoleAdmin))
	assert.Equal(t, http.StatusNotFound, send(models.RoleAdmin))
}
