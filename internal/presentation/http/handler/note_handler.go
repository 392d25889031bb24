package handler

import (
	"github.com/ferrigb/sistema-nota/internal/application/service"
	"github.com/ferrigb/sistema-nota/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// NoteHandler handles note-related HTTP requests
type NoteHandler struct {
	noteService *service.NoteService
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// List returns every note, last modified first
func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.noteService.ListNotes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Notes retrieved successfully", notes)
}

// Create adds a note
func (h *NoteHandler) Create(c *gin.Context) {
	var input service.CreateNoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.noteService.CreateNote(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Note created successfully", note)
}

// Get returns a single note
func (h *NoteHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid note ID")
		return
	}

	note, err := h.noteService.GetNote(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Note retrieved successfully", note)
}

// Update changes the title and/or content of a note
func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid note ID")
		return
	}

	var input service.UpdateNoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.noteService.UpdateNote(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Note updated successfully", note)
}

// Delete removes a note
func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid note ID")
		return
	}

	if err := h.noteService.DeleteNote(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Note deleted successfully", nil)
}
