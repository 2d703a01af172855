package app

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khabaroff/webtestkit/src/middleware"
	"github.com/khabaroff/webtestkit/src/models"
	"github.com/khabaroff/webtestkit/src/records"
	"github.com/khabaroff/webtestkit/src/repositories/memory"
	"github.com/khabaroff/webtestkit/src/services"
	"github.com/khabaroff/webtestkit/src/validation"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// FixtureSecret signs fixture sessions
const FixtureSecret = "fixture-secret-with-at-least-32-characters"

// Fixture is the notes application on in-memory storage with one user per
// built-in role. Each user logs in as <role>@example.com / <role>-password.
type Fixture struct {
	Router   *Router
	Notes    *services.NoteService
	Users    *services.UserService
	Sessions *middleware.Sessions

	usersByRole map[string]*models.User
}

// NewFixture builds a fresh fixture; logs go to logger
func NewFixture(logger zerolog.Logger) (*Fixture, error) {
	gin.SetMode(gin.TestMode)

	v := validation.New()
	notes := services.NewNoteService(memory.NewNoteRepository(), v)
	users := services.NewUserService(memory.NewUserRepository(), v).WithCost(bcrypt.MinCost)

	sessions, err := middleware.NewSessions(FixtureSecret, time.Hour)
	if err != nil {
		return nil, err
	}

	f := &Fixture{
		Notes:       notes,
		Users:       users,
		Sessions:    sessions,
		usersByRole: make(map[string]*models.User, len(models.AllRoles)),
	}

	ctx := context.Background()
	for _, role := range models.AllRoles {
		user, err := users.CreateUser(ctx, fixtureEmail(role), role, fixturePassword(role))
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", role, err)
		}
		f.usersByRole[role] = user
	}

	f.Router = NewRouter(Deps{
		Notes:          notes,
		Users:          users,
		Sessions:       sessions,
		Logger:         logger,
		LoginPath:      "/login",
		AllowedOrigins: []string{"http://localhost"},
		LoginRateLimit: 10000,
	})
	return f, nil
}

// Roles returns the seeded roles
func (f *Fixture) Roles() []string {
	return append([]string(nil), models.AllRoles...)
}

// User returns the seeded user for role
func (f *Fixture) User(role string) *models.User {
	return f.usersByRole[role]
}

// Credentials returns login form values per role
func (f *Fixture) Credentials() map[string]url.Values {
	creds := make(map[string]url.Values, len(f.usersByRole))
	for role := range f.usersByRole {
		creds[role] = url.Values{
			"email":    {fixtureEmail(role)},
			"password": {fixturePassword(role)},
		}
	}
	return creds
}

// IssueToken mints a session token for the seeded user of role
func (f *Fixture) IssueToken(role string) (string, error) {
	user, ok := f.usersByRole[role]
	if !ok {
		return "", fmt.Errorf("no fixture user for role %q", role)
	}
	return f.Sessions.Issue(user.ID, role)
}

// CreateNote stores a note authored by the editor
func (f *Fixture) CreateNote(ctx context.Context, title string) (*models.Note, error) {
	return f.Notes.Create(ctx, f.usersByRole[models.RoleEditor].ID, services.NoteInput{Title: title})
}

// NoteCounter counts stored notes
func (f *Fixture) NoteCounter() records.Counter {
	return f.Notes.Counter()
}

// Close releases the router
func (f *Fixture) Close() {
	f.Router.Close()
}

func fixtureEmail(role string) string    { return role + "@example.com" }
func fixturePassword(role string) string { return role + "-password" }
