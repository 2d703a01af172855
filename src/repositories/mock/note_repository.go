package mock

import (
	"context"

	"github.com/google/uuid"
	"github.com/khabaroff/webtestkit/src/models"
	"github.com/khabaroff/webtestkit/src/repositories"
)

// NoteRepository is a mock implementation of repositories.NoteRepository
type NoteRepository struct {
	// Function stubs that can be overridden in tests
	CreateFunc  func(ctx context.Context, note *models.Note) error
	GetByIDFunc func(ctx context.Context, noteID uuid.UUID) (*models.Note, error)
	ListFunc    func(ctx context.Context, filter repositories.NoteFilter) ([]models.Note, error)
	UpdateFunc  func(ctx context.Context, note *models.Note) error
	DeleteFunc  func(ctx context.Context, noteID uuid.UUID) error
	CountFunc   func(ctx context.Context) (int, error)

	// Call tracking
	Calls map[string][]interface{}
}

// NewNoteRepository creates a new mock note repository
func NewNoteRepository() *NoteRepository {
	return &NoteRepository{
		Calls: make(map[string][]interface{}),
	}
}

func (m *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	m.Calls["Create"] = append(m.Calls["Create"], note)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, note)
	}
	return nil
}

func (m *NoteRepository) GetByID(ctx context.Context, noteID uuid.UUID) (*models.Note, error) {
	m.Calls["GetByID"] = append(m.Calls["GetByID"], noteID)
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, noteID)
	}
	return nil, repositories.ErrNotFound
}

func (m *NoteRepository) List(ctx context.Context, filter repositories.NoteFilter) ([]models.Note, error) {
	m.Calls["List"] = append(m.Calls["List"], filter)
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []models.Note{}, nil
}

func (m *NoteRepository) Update(ctx context.Context, note *models.Note) error {
	m.Calls["Update"] = append(m.Calls["Update"], note)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, note)
	}
	return nil
}

func (m *NoteRepository) Delete(ctx context.Context, noteID uuid.UUID) error {
	m.Calls["Delete"] = append(m.Calls["Delete"], noteID)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, noteID)
	}
	return nil
}

func (m *NoteRepository) Count(ctx context.Context) (int, error) {
	m.Calls["Count"] = append(m.Calls["Count"], nil)
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// Ensure NoteRepository implements the interface
var _ repositories.NoteRepository = (*NoteRepository)(nil)
