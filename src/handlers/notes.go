package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/khabaroff/webtestkit/src/middleware"
	"github.com/khabaroff/webtestkit/src/models"
	"github.com/khabaroff/webtestkit/src/repositories"
	"github.com/khabaroff/webtestkit/src/services"
	"github.com/khabaroff/webtestkit/src/validation"
)

// MaxListLimit caps the limit query parameter
const MaxListLimit = 100

// NotesHandler handles note API requests
type NotesHandler struct {
	notes *services.NoteService
}

// NewNotesHandler creates a new notes handler
func NewNotesHandler(notes *services.NoteService) *NotesHandler {
	return &NotesHandler{notes: notes}
}

// NoteListResponse represents a page of notes with its size
type NoteListResponse struct {
	Notes []models.Note `json:"notes"`
	Count int           `json:"count"`
}

// HandleList returns notes, newest first (GET /notes)
func (nh *NotesHandler) HandleList(c *gin.Context) {
	filter := repositories.NoteFilter{
		IncludeArchived: c.Query("archived") == "true",
		Limit:           MaxListLimit,
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if limit < MaxListLimit {
			filter.Limit = limit
		}
	}

	if raw := c.Query("author_id"); raw != "" {
		authorID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author_id"})
			return
		}
		filter.AuthorID = authorID
	}

	notes, err := nh.notes.List(c.Request.Context(), filter)
	if err != nil {
		nh.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, NoteListResponse{Notes: notes, Count: len(notes)})
}

// HandleGet returns one note (GET /notes/:id)
func (nh *NotesHandler) HandleGet(c *gin.Context) {
	noteID, ok := parseNoteID(c)
	if !ok {
		return
	}

	note, err := nh.notes.Get(c.Request.Context(), noteID)
	if err != nil {
		nh.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"note": note})
}

// HandleCreate stores a note authored by the current user (POST /notes)
func (nh *NotesHandler) HandleCreate(c *gin.Context) {
	var input services.NoteInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	authorID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	note, err := nh.notes.Create(c.Request.Context(), authorID, input)
	if err != nil {
		nh.fail(c, err)
		return
	}

	middleware.Logger(c).Info().Str("note_id", note.ID.String()).Msg("note created")
	c.JSON(http.StatusCreated, gin.H{"note": note})
}

// HandleUpdate replaces title and body (PUT /notes/:id)
func (nh *NotesHandler) HandleUpdate(c *gin.Context) {
	noteID, ok := parseNoteID(c)
	if !ok {
		return
	}

	var input services.NoteInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	note, err := nh.notes.Update(c.Request.Context(), noteID, input)
	if err != nil {
		nh.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"note": note})
}

// HandleArchive archives a note (POST /notes/:id/archive)
func (nh *NotesHandler) HandleArchive(c *gin.Context) {
	noteID, ok := parseNoteID(c)
	if !ok {
		return
	}

	note, err := nh.notes.Archive(c.Request.Context(), noteID)
	if err != nil {
		nh.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"note": note})
}

// HandleDelete removes a note (DELETE /notes/:id)
func (nh *NotesHandler) HandleDelete(c *gin.Context) {
	noteID, ok := parseNoteID(c)
	if !ok {
		return
	}

	if err := nh.notes.Delete(c.Request.Context(), noteID); err != nil {
		nh.fail(c, err)
		return
	}

	middleware.Logger(c).Info().Str("note_id", noteID.String()).Msg("note deleted")
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func parseNoteID(c *gin.Context) (uuid.UUID, bool) {
	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note id"})
		return uuid.Nil, false
	}
	return noteID, true
}

// fail maps service errors to responses
func (nh *NotesHandler) fail(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.Is(err, services.ErrNoteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
	case errors.Is(err, services.ErrInvalidNote) && errors.As(err, &verrs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid note", "errors": verrs})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
