package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/khabaroff/webtestkit/src/models"
	"github.com/khabaroff/webtestkit/src/repositories"
	"github.com/khabaroff/webtestkit/src/repositories/memory"
	"github.com/khabaroff/webtestkit/src/repositories/mock"
	"github.com/khabaroff/webtestkit/src/testkit"
	"github.com/khabaroff/webtestkit/src/validation"
)

func TestNoteService_Create(t *testing.T) {
	ctx := context.Background()
	authorID := uuid.New()

	t.Run("creates note successfully", func(t *testing.T) {
		mockRepo := mock.NewNoteRepository()
		service := NewNoteService(mockRepo, validation.New())

		note, err := service.Create(ctx, authorID, NoteInput{Title: "Groceries", Body: "milk"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if note.AuthorID != authorID {
			t.Errorf("expected author %v, got %v", authorID, note.AuthorID)
		}
		if note.ID == uuid.Nil {
			t.Error("expected note ID to be set")
		}
		if note.Archived {
			t.Error("expected new note to not be archived")
		}

		if len(mockRepo.Calls["Create"]) != 1 {
			t.Errorf("expected 1 call to Create, got %d", len(mockRepo.Calls["Create"]))
		}
	})

	t.Run("rejects invalid note without touching repository", func(t *testing.T) {
		mockRepo := mock.NewNoteRepository()
		service := NewNoteService(mockRepo, validation.New())

		_, err := service.Create(ctx, authorID, NoteInput{Title: ""})
		if !errors.Is(err, ErrInvalidNote) {
			t.Fatalf("expected ErrInvalidNote, got %v", err)
		}

		var verrs validation.Errors
		if !errors.As(err, &verrs) || !verrs.Has("title") {
			t.Errorf("expected title failure, got %v", err)
		}
		if len(mockRepo.Calls["Create"]) != 0 {
			t.Errorf("expected no call to Create, got %d", len(mockRepo.Calls["Create"]))
		}
	})

	t.Run("returns error when repository fails", func(t *testing.T) {
		mockRepo := mock.NewNoteRepository()
		mockRepo.CreateFunc = func(ctx context.Context, note *models.Note) error {
			return errors.New("database error")
		}

		service := NewNoteService(mockRepo, validation.New())
		if _, err := service.Create(ctx, authorID, NoteInput{Title: "x"}); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestNoteService_Get(t *testing.T) {
	ctx := context.Background()
	noteID := uuid.New()

	t.Run("returns note when found", func(t *testing.T) {
		mockRepo := mock.NewNoteRepository()
		mockRepo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Note, error) {
			return &models.Note{ID: id, Title: "found"}, nil
		}

		note, err := NewNoteService(mockRepo, validation.New()).Get(ctx, noteID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if note.ID != noteID {
			t.Errorf("expected note ID %v, got %v", noteID, note.ID)
		}
	})

	t.Run("maps missing note to ErrNoteNotFound", func(t *testing.T) {
		_, err := NewNoteService(mock.NewNoteRepository(), validation.New()).Get(ctx, noteID)
		if !errors.Is(err, ErrNoteNotFound) {
			t.Fatalf("expected ErrNoteNotFound, got %v", err)
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			t.Errorf("expected ErrNoteNotFound to wrap ErrNotFound")
		}
	})

	t.Run("passes other errors through", func(t *testing.T) {
		mockRepo := mock.NewNoteRepository()
		mockRepo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Note, error) {
			return nil, errors.New("connection reset")
		}

		_, err := NewNoteService(mockRepo, validation.New()).Get(ctx, noteID)
		if err == nil || errors.Is(err, ErrNoteNotFound) {
			t.Fatalf("expected a non not-found error, got %v", err)
		}
		if !strings.Contains(err.Error(), "connection reset") {
			t.Errorf("expected wrapped cause, got %v", err)
		}
	})
}

func TestNoteService_UpdateAndArchive(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNoteRepository()
	service := NewNoteService(repo, validation.New())

	note, err := service.Create(ctx, uuid.New(), NoteInput{Title: "Draft"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := service.Update(ctx, note.ID, NoteInput{Title: "Final", Body: "done"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "Final" || updated.Body != "done" {
		t.Errorf("unexpected note after update: %+v", updated)
	}

	if _, err := service.Update(ctx, note.ID, NoteInput{Title: strings.Repeat("x", 121)}); !errors.Is(err, ErrInvalidNote) {
		t.Errorf("expected ErrInvalidNote for long title, got %v", err)
	}

	testkit.AssertScopesOut(t, ctx, service.ActiveScope(), note, func(ctx context.Context, record any) error {
		_, err := service.Archive(ctx, record.(*models.Note).ID)
		return err
	})

	if _, err := service.Update(ctx, uuid.New(), NoteInput{Title: "x"}); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestNoteService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNoteRepository()
	service := NewNoteService(repo, validation.New())

	note, err := service.Create(ctx, uuid.New(), NoteInput{Title: "Temporary"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	before, _ := service.Count(ctx)
	if err := service.Delete(ctx, note.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	after, _ := service.Counter().Count(ctx)
	if after != before-1 {
		t.Errorf("expected count %d, got %d", before-1, after)
	}

	testkit.AssertDestroyed(t, ctx, service.Reloader(note))

	if err := service.Delete(ctx, note.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound on second delete, got %v", err)
	}
}

func TestNoteService_Reloader(t *testing.T) {
	ctx := context.Background()
	service := NewNoteService(memory.NewNoteRepository(), validation.New())

	note, err := service.Create(ctx, uuid.New(), NoteInput{Title: "Old"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	stale := *note
	if _, err := service.Update(ctx, note.ID, NoteInput{Title: "New"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if err := service.Reloader(&stale).Reload(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stale.Title != "New" {
		t.Errorf("expected reloaded title New, got %q", stale.Title)
	}
}

func TestNoteService_ActiveScopeRejectsOtherRecords(t *testing.T) {
	service := NewNoteService(mock.NewNoteRepository(), validation.New())

	_, err := service.ActiveScope().Contains(context.Background(), &models.User{})
	if err == nil {
		t.Fatal("expected error for non-note record")
	}
}

func TestNoteService_ListOrder(t *testing.T) {
	ctx := context.Background()
	service := NewNoteService(memory.NewNoteRepository(), validation.New())

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Hour)
		service.now = func() time.Time { return at }
		if _, err := service.Create(ctx, uuid.New(), NoteInput{Title: title}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	notes, err := service.List(ctx, repositories.NoteFilter{Limit: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	titles := make([]string, len(notes))
	for i, n := range notes {
		titles[i] = n.Title
	}
	testkit.AssertMatchingArrays(t, []string{"third", "second"}, titles)
}
