package models

import (
	"time"

	"github.com/google/uuid"
)

// Note is a short text owned by its author
type Note struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Title     string    `json:"title" validate:"required,max=120"`
	Body      string    `json:"body" validate:"max=10000"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Archive marks the note archived
func (n *Note) Archive() {
	n.Archived = true
	n.UpdatedAt = time.Now()
}
