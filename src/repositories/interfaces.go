package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/khabaroff/webtestkit/src/models"
	"github.com/khabaroff/webtestkit/src/records"
)

// ErrNotFound is returned when a lookup matches nothing
var ErrNotFound = records.ErrNotFound

// NoteFilter narrows List results
type NoteFilter struct {
	IncludeArchived bool
	AuthorID        uuid.UUID // uuid.Nil means any author
	Limit           int       // 0 means no limit
}

// NoteRepository defines the interface for note data access
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, noteID uuid.UUID) (*models.Note, error)
	List(ctx context.Context, filter NoteFilter) ([]models.Note, error)
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, noteID uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context) (int, error)
}
