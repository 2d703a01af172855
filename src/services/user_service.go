package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khabaroff/webtestkit/src/models"
	"github.com/khabaroff/webtestkit/src/records"
	"github.com/khabaroff/webtestkit/src/repositories"
	"github.com/khabaroff/webtestkit/src/validation"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 8

// UserService handles user accounts and password checks
type UserService struct {
	repo      repositories.UserRepository
	validator *validation.Validator
	cost      int
}

// NewUserService creates a new user service
func NewUserService(repo repositories.UserRepository, validator *validation.Validator) *UserService {
	return &UserService{repo: repo, validator: validator, cost: bcrypt.DefaultCost}
}

// WithCost sets the bcrypt cost, used by tests to keep hashing fast
func (us *UserService) WithCost(cost int) *UserService {
	us.cost = cost
	return us
}

// CreateUser creates a new user with hashed password
func (us *UserService) CreateUser(ctx context.Context, email, role, password string) (*models.User, error) {
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidUser, MinPasswordLength)
	}

	user := &models.User{
		ID:        uuid.New(),
		Email:     strings.TrimSpace(email),
		Role:      role,
		CreatedAt: time.Now(),
	}
	if err := us.validator.Validate(user); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUser, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), us.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := us.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// HasUsers checks if any user accounts exist
func (us *UserService) HasUsers(ctx context.Context) (bool, error) {
	count, err := us.repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check users: %w", err)
	}
	return count > 0, nil
}

// Counter counts stored users
func (us *UserService) Counter() records.Counter {
	return records.CounterFunc(us.repo.Count)
}

// Authenticate verifies email and password
func (us *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := us.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (us *UserService) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := us.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
