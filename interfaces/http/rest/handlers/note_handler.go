package handlers

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"strconv"
	"strings"

	"cortex/application/commands"
	"cortex/application/commands/bus"
	"cortex/application/queries"
	querybus "cortex/application/queries/bus"
	"cortex/pkg/auth"
	"cortex/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NoteHandler handles note-related HTTP requests
type NoteHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *NoteHandler {
	return &NoteHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// CreateNoteRequest represents the request body for creating a note
type CreateNoteRequest struct {
	Title   string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content string   `json:"content" validate:"required"`
	Format  string   `json:"format,omitempty" validate:"omitempty,oneof=text markdown html"`
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
	Tags    []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=30"`
}

// UpdateNoteRequest represents the request body for updating a note
type UpdateNoteRequest struct {
	Title   *string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content *string   `json:"content,omitempty"`
	Format  *string   `json:"format,omitempty" validate:"omitempty,oneof=text markdown html"`
	X       *float64  `json:"x,omitempty"`
	Y       *float64  `json:"y,omitempty"`
	Tags    *[]string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=30"`
}

// RecordEmbeddingRequest represents the request body for attaching an
// embedding vector to a note
type RecordEmbeddingRequest struct {
	Vector []float64 `json:"vector" validate:"required,min=1"`
}

// CreateNoteResponse represents the response for creating a note
type CreateNoteResponse struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

// CreateNote handles POST /notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if req.Format == "" {
		req.Format = "text"
	}

	// Generate title from content if not provided
	if req.Title == "" {
		titleLen := len(req.Content)
		if titleLen > 50 {
			titleLen = 50
		}
		req.Title = strings.TrimSpace(req.Content[:titleLen])
		if req.Title == "" {
			req.Title = "Untitled"
		}
		if len(req.Content) > 50 {
			req.Title = req.Title + "..."
		}
	}

	noteID := uuid.New().String()

	// Scatter new notes on the canvas when the client gives no position
	var x, y float64
	if req.X != nil {
		x = *req.X
	} else {
		x = (rand.Float64() * 1000) - 500
	}
	if req.Y != nil {
		y = *req.Y
	} else {
		y = (rand.Float64() * 1000) - 500
	}

	cmd := commands.CreateNoteCommand{
		NoteID:  noteID,
		UserID:  userCtx.UserID,
		Title:   req.Title,
		Content: req.Content,
		Format:  req.Format,
		X:       x,
		Y:       y,
		Tags:    req.Tags,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to create note",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		if strings.Contains(err.Error(), "validation") {
			h.respondError(w, http.StatusBadRequest, err.Error())
		} else {
			h.respondError(w, http.StatusInternalServerError, "Failed to create note")
		}
		return
	}

	response := CreateNoteResponse{
		ID:        noteID,
		Message:   "Note created successfully",
		CreatedAt: utils.NowRFC3339(),
	}

	h.respondJSON(w, http.StatusCreated, response)
}

// GetNote handles GET /notes/{noteID}
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")
	if noteID == "" {
		h.respondError(w, http.StatusBadRequest, "Note ID is required")
		return
	}

	if _, err := uuid.Parse(noteID); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid note ID format")
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := queries.GetNoteQuery{
		UserID: userCtx.UserID,
		NoteID: noteID,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to get note",
			zap.String("noteID", noteID),
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		if strings.Contains(err.Error(), "not found") {
			h.respondError(w, http.StatusNotFound, "Note not found")
		} else {
			h.respondError(w, http.StatusInternalServerError, "Failed to retrieve note")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// ListNotes handles GET /notes
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := queries.ListNotesQuery{
		UserID: userCtx.UserID,
		Query:  r.URL.Query().Get("q"),
	}
	if tags := r.URL.Query().Get("tags"); tags != "" {
		query.Tags = strings.Split(tags, ",")
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			query.Limit = n
		}
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil {
			query.Offset = n
		}
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to list notes",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		if strings.Contains(err.Error(), "invalid") {
			h.respondError(w, http.StatusBadRequest, err.Error())
		} else {
			h.respondError(w, http.StatusInternalServerError, "Failed to list notes")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// UpdateNote handles PUT /notes/{noteID}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")
	if noteID == "" {
		h.respondError(w, http.StatusBadRequest, "Note ID is required")
		return
	}

	if _, err := uuid.Parse(noteID); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid note ID format")
		return
	}

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cmd := commands.UpdateNoteCommand{
		NoteID:  noteID,
		UserID:  userCtx.UserID,
		Title:   req.Title,
		Content: req.Content,
		Format:  req.Format,
		X:       req.X,
		Y:       req.Y,
		Tags:    req.Tags,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to update note",
			zap.String("noteID", noteID),
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		switch {
		case strings.Contains(err.Error(), "not found"):
			h.respondError(w, http.StatusNotFound, "Note not found")
		case strings.Contains(err.Error(), "belong"):
			h.respondError(w, http.StatusForbidden, "Note does not belong to user")
		case strings.Contains(err.Error(), "invalid"):
			h.respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.respondError(w, http.StatusInternalServerError, "Failed to update note")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"id":      noteID,
		"message": "Note updated successfully",
	})
}

// DeleteNote handles DELETE /notes/{noteID}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")
	if noteID == "" {
		h.respondError(w, http.StatusBadRequest, "Note ID is required")
		return
	}

	if _, err := uuid.Parse(noteID); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid note ID format")
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cmd := commands.DeleteNoteCommand{
		NoteID: noteID,
		UserID: userCtx.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to delete note",
			zap.String("noteID", noteID),
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		switch {
		case strings.Contains(err.Error(), "not found"):
			h.respondError(w, http.StatusNotFound, "Note not found")
		case strings.Contains(err.Error(), "belong"):
			h.respondError(w, http.StatusForbidden, "Note does not belong to user")
		default:
			h.respondError(w, http.StatusInternalServerError, "Failed to delete note")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"id":      noteID,
		"message": "Note deleted successfully",
	})
}

// RecordEmbedding handles PUT /notes/{noteID}/embedding
func (h *NoteHandler) RecordEmbedding(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "noteID")
	if noteID == "" {
		h.respondError(w, http.StatusBadRequest, "Note ID is required")
		return
	}

	if _, err := uuid.Parse(noteID); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid note ID format")
		return
	}

	var req RecordEmbeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cmd := commands.RecordEmbeddingCommand{
		NoteID: noteID,
		UserID: userCtx.UserID,
		Vector: req.Vector,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to record embedding",
			zap.String("noteID", noteID),
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		switch {
		case strings.Contains(err.Error(), "not found"):
			h.respondError(w, http.StatusNotFound, "Note not found")
		case strings.Contains(err.Error(), "belong"):
			h.respondError(w, http.StatusForbidden, "Note does not belong to user")
		case strings.Contains(err.Error(), "invalid"):
			h.respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.respondError(w, http.StatusInternalServerError, "Failed to record embedding")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"id":      noteID,
		"message": "Embedding recorded successfully",
	})
}

// respondJSON writes a JSON response
func (h *NoteHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// respondError writes an error response
func (h *NoteHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
