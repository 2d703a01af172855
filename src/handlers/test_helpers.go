package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khabaroff/webtestkit/src/middleware"
	"github.com/khabaroff/webtestkit/src/models"
	"github.com/khabaroff/webtestkit/src/repositories/memory"
	"github.com/khabaroff/webtestkit/src/services"
	"github.com/khabaroff/webtestkit/src/validation"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Test helpers for handler tests

const testSecret = "handler-test-secret-at-least-32-chars"

// testEnv wires handlers to in-memory services
type testEnv struct {
	notes    *services.NoteService
	users    *services.UserService
	sessions *middleware.Sessions
	router   *gin.Engine
	editor   *models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	v := validation.New()
	env := &testEnv{
		notes: services.NewNoteService(memory.NewNoteRepository(), v),
		users: services.NewUserService(memory.NewUserRepository(), v).WithCost(bcrypt.MinCost),
	}

	sessions, err := middleware.NewSessions(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewSessions failed: %v", err)
	}
	env.sessions = sessions

	env.editor, err = env.users.CreateUser(context.Background(), "editor@example.com", models.RoleEditor, "editor-password")
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	notesHandler := NewNotesHandler(env.notes)
	sessionHandler := NewSessionHandler(env.users, sessions, "/login", "/notes")

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware(zerolog.Nop()))
	router.GET("/login", sessionHandler.HandleLoginPage)
	router.POST("/login", sessionHandler.HandleLogin)
	router.POST("/logout", sessionHandler.HandleLogout)

	auth := middleware.RequireRole(sessions, "/login")
	router.GET("/notes", auth, notesHandler.HandleList)
	router.GET("/notes/:id", auth, notesHandler.HandleGet)
	router.POST("/notes", auth, notesHandler.HandleCreate)
	router.PUT("/notes/:id", auth, notesHandler.HandleUpdate)
	router.POST("/notes/:id/archive", auth, notesHandler.HandleArchive)
	router.DELETE("/notes/:id", auth, notesHandler.HandleDelete)
	env.router = router

	return env
}

// editorCookie returns a session token for the seeded editor
func (env *testEnv) editorToken(t *testing.T) string {
	t.Helper()
	token, err := env.sessions.Issue(env.editor.ID, models.RoleEditor)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	return token
}

// createTestContext creates a test Gin context with recorder
func createTestContext() (*httptest.ResponseRecorder, *gin.Context) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return w, c
}

// assertStatusCode checks if response status code matches expected
func assertStatusCode(t *testing.T, w *httptest.ResponseRecorder, expectedCode int) {
	t.Helper()
	if w.Code != expectedCode {
		t.Errorf("expected status %d, got %d: %s", expectedCode, w.Code, w.Body.String())
	}
}

// assertJSONError checks if response contains expected error message
func assertJSONError(t *testing.T, w *httptest.ResponseRecorder, expectedError string) {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response["error"] != expectedError {
		t.Errorf("expected error '%s', got '%v'", expectedError, response["error"])
	}
}
