// Package memory keeps notes and users in process memory. It backs the
// application when no database is configured and in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/khabaroff/webtestkit/src/models"
	"github.com/khabaroff/webtestkit/src/repositories"
)

// NoteRepository is an in-memory repositories.NoteRepository
type NoteRepository struct {
	mu    sync.RWMutex
	notes map[uuid.UUID]models.Note
}

// NewNoteRepository creates an empty note repository
func NewNoteRepository() *NoteRepository {
	return &NoteRepository{notes: make(map[uuid.UUID]models.Note)}
}

func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.notes[note.ID]; exists {
		return fmt.Errorf("note %s already exists", note.ID)
	}
	r.notes[note.ID] = *note
	return nil
}

func (r *NoteRepository) GetByID(ctx context.Context, noteID uuid.UUID) (*models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, ok := r.notes[noteID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &note, nil
}

// List returns notes newest first
func (r *NoteRepository) List(ctx context.Context, filter repositories.NoteFilter) ([]models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]models.Note, 0, len(r.notes))
	for _, note := range r.notes {
		if note.Archived && !filter.IncludeArchived {
			continue
		}
		if filter.AuthorID != uuid.Nil && note.AuthorID != filter.AuthorID {
			continue
		}
		notes = append(notes, note)
	}

	sort.Slice(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].ID.String() < notes[j].ID.String()
		}
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})

	if filter.Limit > 0 && len(notes) > filter.Limit {
		notes = notes[:filter.Limit]
	}
	return notes, nil
}

func (r *NoteRepository) Update(ctx context.Context, note *models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[note.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.notes[note.ID] = *note
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, noteID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[noteID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.notes, noteID)
	return nil
}

func (r *NoteRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notes), nil
}

// UserRepository is an in-memory repositories.UserRepository
type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
}

// NewUserRepository creates an empty user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]models.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return fmt.Errorf("user %s already exists", user.Email)
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

var (
	_ repositories.NoteRepository = (*NoteRepository)(nil)
	_ repositories.UserRepository = (*UserRepository)(nil)
)
