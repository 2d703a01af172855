package handlers

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khabaroff/webtestkit/src/middleware"
	"github.com/khabaroff/webtestkit/src/services"
)

var loginPage = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><title>Sign in</title></head>
<body>
<h1>Sign in</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="{{.Action}}">
<label>Email <input type="email" name="email" value="{{.Email}}"></label>
<label>Password <input type="password" name="password"></label>
<button type="submit">Sign in</button>
</form>
</body>
</html>
`))

type loginPageData struct {
	Action string
	Email  string
	Error  string
}

// SessionHandler handles login and logout
type SessionHandler struct {
	users     *services.UserService
	sessions  *middleware.Sessions
	loginPath string
	homePath  string
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(users *services.UserService, sessions *middleware.Sessions, loginPath, homePath string) *SessionHandler {
	return &SessionHandler{
		users:     users,
		sessions:  sessions,
		loginPath: loginPath,
		homePath:  homePath,
	}
}

// LoginRequest is accepted as a form or as JSON
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginResponse is returned to JSON clients
type LoginResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

// HandleLoginPage serves the login form
func (sh *SessionHandler) HandleLoginPage(c *gin.Context) {
	sh.renderLogin(c, http.StatusOK, loginPageData{Action: sh.loginPath})
}

// HandleLogin authenticates a user and sets the session cookie
func (sh *SessionHandler) HandleLogin(c *gin.Context) {
	wantsJSON := strings.HasPrefix(c.ContentType(), "application/json")

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		if wantsJSON {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}
		sh.renderLogin(c, http.StatusBadRequest, loginPageData{
			Action: sh.loginPath,
			Email:  req.Email,
			Error:  "Email and password are required.",
		})
		return
	}

	user, err := sh.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.Logger(c).Warn().Str("email", req.Email).Msg("failed login")
		if wantsJSON {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		sh.renderLogin(c, http.StatusUnauthorized, loginPageData{
			Action: sh.loginPath,
			Email:  req.Email,
			Error:  "Invalid email or password.",
		})
		return
	}

	token, err := sh.sessions.Issue(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	sh.sessions.SetCookie(c, token)

	if wantsJSON {
		c.JSON(http.StatusOK, LoginResponse{
			Token:     token,
			Role:      user.Role,
			ExpiresAt: time.Now().Add(sh.sessions.TTL()).Unix(),
		})
		return
	}
	c.Redirect(http.StatusSeeOther, sh.homePath)
}

// HandleLogout clears the session cookie
func (sh *SessionHandler) HandleLogout(c *gin.Context) {
	sh.sessions.ClearCookie(c)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (sh *SessionHandler) renderLogin(c *gin.Context, status int, data loginPageData) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := loginPage.Execute(c.Writer, data); err != nil {
		_ = c.Error(err)
	}
}
