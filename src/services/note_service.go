package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/khabaroff/webtestkit/src/models"
	"github.com/khabaroff/webtestkit/src/records"
	"github.com/khabaroff/webtestkit/src/repositories"
	"github.com/khabaroff/webtestkit/src/validation"
)

// NoteInput carries the editable fields of a note
type NoteInput struct {
	Title string `json:"title" form:"title"`
	Body  string `json:"body" form:"body"`
}

// NoteService handles note operations
type NoteService struct {
	repo      repositories.NoteRepository
	validator *validation.Validator
	now       func() time.Time
}

// NewNoteService creates a new note service
func NewNoteService(repo repositories.NoteRepository, validator *validation.Validator) *NoteService {
	return &NoteService{repo: repo, validator: validator, now: time.Now}
}

// Create validates and stores a new note owned by authorID
func (ns *NoteService) Create(ctx context.Context, authorID uuid.UUID, input NoteInput) (*models.Note, error) {
	now := ns.now()
	note := &models.Note{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     input.Title,
		Body:      input.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := ns.validate(note); err != nil {
		return nil, err
	}
	if err := ns.repo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return note, nil
}

// Get retrieves a note by ID
func (ns *NoteService) Get(ctx context.Context, noteID uuid.UUID) (*models.Note, error) {
	note, err := ns.repo.GetByID(ctx, noteID)
	if err != nil {
		return nil, ns.wrap(err, "failed to get note")
	}
	return note, nil
}

// List returns notes matching filter
func (ns *NoteService) List(ctx context.Context, filter repositories.NoteFilter) ([]models.Note, error) {
	notes, err := ns.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// Update replaces the title and body of a note
func (ns *NoteService) Update(ctx context.Context, noteID uuid.UUID, input NoteInput) (*models.Note, error) {
	note, err := ns.Get(ctx, noteID)
	if err != nil {
		return nil, err
	}

	note.Title = input.Title
	note.Body = input.Body
	note.UpdatedAt = ns.now()

	if err := ns.validate(note); err != nil {
		return nil, err
	}
	if err := ns.repo.Update(ctx, note); err != nil {
		return nil, ns.wrap(err, "failed to update note")
	}
	return note, nil
}

// Archive hides a note from the default listing
func (ns *NoteService) Archive(ctx context.Context, noteID uuid.UUID) (*models.Note, error) {
	note, err := ns.Get(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.Archived {
		return note, nil
	}

	note.Archive()
	if err := ns.repo.Update(ctx, note); err != nil {
		return nil, ns.wrap(err, "failed to archive note")
	}
	return note, nil
}

// Delete removes a note
func (ns *NoteService) Delete(ctx context.Context, noteID uuid.UUID) error {
	if err := ns.repo.Delete(ctx, noteID); err != nil {
		return ns.wrap(err, "failed to delete note")
	}
	return nil
}

// Count returns the number of stored notes, archived included
func (ns *NoteService) Count(ctx context.Context) (int, error) {
	return ns.repo.Count(ctx)
}

// Counter exposes Count as a records.Counter
func (ns *NoteService) Counter() records.Counter {
	return records.CounterFunc(ns.Count)
}

// Reloader re-reads note from storage into place
func (ns *NoteService) Reloader(note *models.Note) records.Reloader {
	return records.ReloaderFunc(func(ctx context.Context) error {
		fresh, err := ns.Get(ctx, note.ID)
		if err != nil {
			return err
		}
		*note = *fresh
		return nil
	})
}

// ActiveScope contains the notes that are stored and not archived
func (ns *NoteService) ActiveScope() records.Scope {
	return records.ScopeFunc(func(ctx context.Context, record any) (bool, error) {
		note, ok := record.(*models.Note)
		if !ok {
			return false, fmt.Errorf("active scope: unexpected record %T", record)
		}
		fresh, err := ns.repo.GetByID(ctx, note.ID)
		if err != nil {
			if errors.Is(err, records.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		return !fresh.Archived, nil
	})
}

func (ns *NoteService) validate(note *models.Note) error {
	if err := ns.validator.Validate(note); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNote, err)
	}
	return nil
}

func (ns *NoteService) wrap(err error, msg string) error {
	if errors.Is(err, records.ErrNotFound) {
		return ErrNoteNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
