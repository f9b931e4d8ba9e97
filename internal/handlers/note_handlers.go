package handlers

import (
	"net/http"

	"notesapp/internal/common"
	"notesapp/internal/models"
	"notesapp/internal/services"

	"github.com/labstack/echo/v4"
)

// NoteHandlers serves the note endpoints
type NoteHandlers struct {
	noteService services.NoteService
}

func NewNoteHandlers(noteService services.NoteService) *NoteHandlers {
	return &NoteHandlers{noteService: noteService}
}

// NoteListResponse wraps the caller's notes
type NoteListResponse struct {
	Notes []*models.Note `json:"notes"`
	Count int            `json:"count"`
}

// CreateNote creates a note owned by the caller, subject to the plan quota
// @Summary Create note
// @Tags Notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.NoteRequest true "Note"
// @Success 201 {object} models.Note
// @Failure 400 {object} common.ErrorResponse
// @Failure 401 {object} common.ErrorResponse
// @Failure 403 {object} common.ErrorResponse
// @Router /v1/notes [post]
func (h *NoteHandlers) CreateNote(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req models.NoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	note, err := h.noteService.Create(ctx, caller, req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, note)
}

// ListNotes returns the caller's own notes
// @Summary List notes
// @Tags Notes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} NoteListResponse
// @Failure 401 {object} common.ErrorResponse
// @Router /v1/notes [get]
func (h *NoteHandlers) ListNotes(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	notes, err := h.noteService.List(ctx, caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, NoteListResponse{Notes: notes, Count: len(notes)})
}

// GetNote returns one note
// @Summary Get note
// @Tags Notes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Success 200 {object} models.Note
// @Failure 400 {object} common.ErrorResponse
// @Failure 403 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /v1/notes/{id} [get]
func (h *NoteHandlers) GetNote(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "note ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	note, err := h.noteService.Get(ctx, caller, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, note)
}

// UpdateNote replaces title and content of a note
// @Summary Update note
// @Tags Notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Param body body models.NoteRequest true "Note"
// @Success 200 {object} models.Note
// @Failure 400 {object} common.ErrorResponse
// @Failure 403 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /v1/notes/{id} [put]
func (h *NoteHandlers) UpdateNote(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "note ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req models.NoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	note, err := h.noteService.Update(ctx, caller, id, req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, note)
}

// DeleteNote removes a note
// @Summary Delete note
// @Tags Notes
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Success 204
// @Failure 400 {object} common.ErrorResponse
// @Failure 403 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /v1/notes/{id} [delete]
func (h *NoteHandlers) DeleteNote(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := common.GetIdentityFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "note ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.noteService.Delete(ctx, caller, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
