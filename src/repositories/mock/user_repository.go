package mock

import (
	"context"

	"github.com/google/uuid"
	"github.com/khabaroff/webtestkit/src/models"
	"github.com/khabaroff/webtestkit/src/repositories"
)

// UserRepository is a mock implementation of repositories.UserRepository
type UserRepository struct {
	CreateFunc     func(ctx context.Context, user *models.User) error
	GetByIDFunc    func(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	CountFunc      func(ctx context.Context) (int, error)

	Calls map[string][]interface{}
}

// NewUserRepository creates a new mock user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		Calls: make(map[string][]interface{}),
	}
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	m.Calls["Create"] = append(m.Calls["Create"], user)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	m.Calls["GetByID"] = append(m.Calls["GetByID"], userID)
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID)
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.Calls["GetByEmail"] = append(m.Calls["GetByEmail"], email)
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) Count(ctx context.Context) (int, error) {
	m.Calls["Count"] = append(m.Calls["Count"], nil)
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

var _ repositories.UserRepository = (*UserRepository)(nil)
