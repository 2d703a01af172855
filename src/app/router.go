// Package app assembles the notes application: services, middleware and
// routes on a gin engine.
package app

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/khabaroff/webtestkit/src/handlers"
	"github.com/khabaroff/webtestkit/src/middleware"
	"github.com/khabaroff/webtestkit/src/models"
	"github.com/khabaroff/webtestkit/src/services"
	"github.com/rs/zerolog"
)

// Version is reported by /info
const Version = "1.0.0"

// Deps are the collaborators the router needs
type Deps struct {
	Notes          *services.NoteService
	Users          *services.UserService
	Sessions       *middleware.Sessions
	DB             handlers.Pinger // nil for in-memory storage
	Logger         zerolog.Logger
	LoginPath      string
	AllowedOrigins []string
	LoginRateLimit int
	// Roles enabled for the notes routes; defaults to models.AllRoles.
	// Sessions for other roles get 401 everywhere.
	Roles []string
}

// Router is the application's HTTP handler
type Router struct {
	*gin.Engine
	loginLimiter *middleware.KeyRateLimiter
}

// NewRouter builds the engine and registers all routes
func NewRouter(deps Deps) *Router {
	if deps.LoginPath == "" {
		deps.LoginPath = "/login"
	}
	if len(deps.Roles) == 0 {
		deps.Roles = models.AllRoles
	}

	engine := gin.New()
	engine.Use(middleware.RequestIDMiddleware(deps.Logger))
	engine.Use(middleware.LoggingMiddleware(deps.Logger))
	engine.Use(gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	loginLimit, loginLimiter := middleware.LoginRateLimitMiddleware(deps.LoginRateLimit)
	r := &Router{Engine: engine, loginLimiter: loginLimiter}

	healthHandler := handlers.NewHealthHandler(deps.DB, Version).
		WithCounter("notes", deps.Notes.Counter()).
		WithCounter("users", deps.Users.Counter())
	sessionHandler := handlers.NewSessionHandler(deps.Users, deps.Sessions, deps.LoginPath, "/notes")
	notesHandler := handlers.NewNotesHandler(deps.Notes)

	// Health check endpoints
	engine.GET("/health", healthHandler.HandleHealth)
	engine.GET("/ready", healthHandler.HandleReady)
	engine.GET("/info", healthHandler.HandleInfo)

	// Session endpoints
	engine.GET(deps.LoginPath, sessionHandler.HandleLoginPage)
	engine.POST(deps.LoginPath, loginLimit, sessionHandler.HandleLogin)
	engine.POST("/logout", sessionHandler.HandleLogout)

	readers := middleware.RequireRole(deps.Sessions, deps.LoginPath, deps.Roles...)

	notes := engine.Group("/notes")
	{
		notes.GET("", readers, notesHandler.HandleList)
		notes.GET("/:id", readers, notesHandler.HandleGet)
		if writers := enabled(deps.Roles, models.RoleAdmin, models.RoleEditor); len(writers) > 0 {
			write := middleware.RequireRole(deps.Sessions, deps.LoginPath, writers...)
			notes.POST("", write, notesHandler.HandleCreate)
			notes.PUT("/:id", write, notesHandler.HandleUpdate)
			notes.POST("/:id/archive", write, notesHandler.HandleArchive)
		}
		if admins := enabled(deps.Roles, models.RoleAdmin); len(admins) > 0 {
			notes.DELETE("/:id", middleware.RequireRole(deps.Sessions, deps.LoginPath, admins...), notesHandler.HandleDelete)
		}
	}

	return r
}

// enabled keeps the roles of want that are switched on; a route with none
// left is not registered
func enabled(roles []string, want ...string) []string {
	var out []string
	for _, role := range want {
		if slices.Contains(roles, role) {
			out = append(out, role)
		}
	}
	return out
}

// Close stops background work owned by the router
func (r *Router) Close() {
	r.loginLimiter.Stop()
}
