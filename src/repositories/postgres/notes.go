// Package postgres implements the repositories on top of a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/khabaroff/webtestkit/src/models"
	"github.com/khabaroff/webtestkit/src/repositories"
)

const noteColumns = `id, author_id, title, body, archived, created_at, updated_at`

// NoteRepository stores notes in the notes table
type NoteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository creates a note repository backed by pool
func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notes (`+noteColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		note.ID, note.AuthorID, note.Title, note.Body, note.Archived, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

func (r *NoteRepository) GetByID(ctx context.Context, noteID uuid.UUID) (*models.Note, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1`, noteID)
	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

func (r *NoteRepository) List(ctx context.Context, filter repositories.NoteFilter) ([]models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE ($1 OR archived = false)`
	args := []interface{}{filter.IncludeArchived}

	if filter.AuthorID != uuid.Nil {
		args = append(args, filter.AuthorID)
		query += fmt.Sprintf(" AND author_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

func (r *NoteRepository) Update(ctx context.Context, note *models.Note) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE notes SET title = $2, body = $3, archived = $4, updated_at = $5 WHERE id = $1`,
		note.ID, note.Title, note.Body, note.Archived, note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if result.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, noteID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, noteID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if result.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *NoteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}
	return count, nil
}

func scanNote(row pgx.Row) (*models.Note, error) {
	var n models.Note
	err := row.Scan(&n.ID, &n.AuthorID, &n.Title, &n.Body, &n.Archived, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

var _ repositories.NoteRepository = (*NoteRepository)(nil)
