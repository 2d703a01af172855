package config

import (
	cryptoRand "crypto/rand"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/khabaroff/webtestkit/src/models"
	"gopkg.in/yaml.v3"
)

// DefaultRoles are used when neither ROLES nor ROLES_FILE is set
var DefaultRoles = append([]string(nil), models.AllRoles...)

// Config holds application configuration
type Config struct {
	Port           int
	DatabaseURL    string // empty = in-memory storage
	JWTSecret      string
	SessionTTL     time.Duration
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string

	// Request test settings
	LoginPath      string
	Roles          []string // enabled roles, a subset of models.AllRoles
	RolesFile      string
	LoginRateLimit int // requests per minute per IP

	// Admin auto-seed (first run only)
	AdminEmail    string
	AdminPassword string
}

// rolesFile is the layout of ROLES_FILE
type rolesFile struct {
	Roles []string `yaml:"roles"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnvInt("PORT", 8080),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:8080"}),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),

		LoginPath:      getEnv("LOGIN_PATH", "/login"),
		Roles:          getEnvList("ROLES", DefaultRoles),
		RolesFile:      getEnv("ROLES_FILE", ""),
		LoginRateLimit: getEnvInt("LOGIN_RATE_LIMIT", 10),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	if cfg.RolesFile != "" {
		roles, err := LoadRolesFile(cfg.RolesFile)
		if err != nil {
			return nil, err
		}
		cfg.Roles = roles
	}

	if err := validateRoles(cfg.Roles); err != nil {
		return nil, err
	}

	if !strings.HasPrefix(cfg.LoginPath, "/") {
		return nil, fmt.Errorf("LOGIN_PATH must start with /, got %q", cfg.LoginPath)
	}

	// Generate JWT secret if not provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = generateRandomSecret(32)
	}

	return cfg, nil
}

// LoadRolesFile reads the role list from a YAML file with a top-level roles key
func LoadRolesFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roles file: %w", err)
	}

	var rf rolesFile
	if err := yaml.Unmarshal(content, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse roles file %s: %w", path, err)
	}

	roles := normalizeList(rf.Roles)
	if len(roles) == 0 {
		return nil, fmt.Errorf("roles file %s lists no roles", path)
	}
	return roles, nil
}

// validateRoles accepts a subset of the built-in roles that keeps admin,
// which owns note deletion and the seeded account
func validateRoles(roles []string) error {
	for _, role := range roles {
		if !slices.Contains(models.AllRoles, role) {
			return fmt.Errorf("unknown role %q, expected one of %s", role, strings.Join(models.AllRoles, ", "))
		}
	}
	if !slices.Contains(roles, models.RoleAdmin) {
		return fmt.Errorf("roles must include %q", models.RoleAdmin)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if list := normalizeList(strings.Split(value, ",")); len(list) > 0 {
			return list
		}
	}
	return append([]string(nil), defaultValue...)
}

// normalizeList trims entries and drops empties and duplicates, keeping order
func normalizeList(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// generateRandomSecret generates a cryptographically secure random secret for JWT signing
func generateRandomSecret(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	if _, err := cryptoRand.Read(result); err != nil {
		panic("failed to generate random secret: " + err.Error())
	}
	for i := range result {
		result[i] = charset[result[i]%byte(len(charset))]
	}
	return string(result)
}
