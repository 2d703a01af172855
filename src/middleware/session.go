package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookie is the cookie carrying the session token
const SessionCookie = "session"

// Context keys set by RequireRole
const (
	UserIDKey = "user_id"
	RoleKey   = "role"
)

const sessionIssuer = "webtestkit-notes"

// ErrInvalidSession is returned for tokens that fail parsing or verification
var ErrInvalidSession = errors.New("invalid session token")

// SessionClaims represents JWT claims for a logged-in user
type SessionClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies HS256 session tokens
type Sessions struct {
	secret []byte
	ttl    time.Duration
}

// NewSessions validates the secret and returns a token issuer
func NewSessions(secret string, ttl time.Duration) (*Sessions, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if len(secret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Sessions{secret: []byte(secret), ttl: ttl}, nil
}

// Issue creates a session token for a user holding role
func (s *Sessions) Issue(userID uuid.UUID, role string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: userID.String(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse verifies a token and returns its claims
func (s *Sessions) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(sessionIssuer))

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if !token.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// SetCookie stores token in the session cookie
func (s *Sessions) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(s.ttl.Seconds()), "/", "", false, true)
}

// ClearCookie expires the session cookie
func (s *Sessions) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}

// tokenFromRequest reads the session cookie first, then a bearer header
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// RequireRole admits requests whose session holds one of roles, or any
// session when roles is empty. Requests without a valid session are
// redirected to loginPath; sessions lacking the role get 401.
func RequireRole(sessions *Sessions, loginPath string, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}

		claims, err := sessions.Parse(token)
		if err != nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}

		if len(roles) > 0 && !hasRole(claims.Role, roles) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "insufficient role",
				"role":  claims.Role,
			})
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// CurrentUserID returns the authenticated user's ID
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(UserIDKey)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// CurrentRole returns the authenticated user's role, or "" when anonymous
func CurrentRole(c *gin.Context) string {
	return c.GetString(RoleKey)
}

// TTL returns how long issued sessions stay valid
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}
