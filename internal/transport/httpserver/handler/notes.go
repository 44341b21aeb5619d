package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	notedomain "family-journal-go/internal/domain/note"
)

type createNoteRequest struct {
	Transcript      string   `json:"transcript"`
	Summary         *string  `json:"summary"`
	AudioURL        *string  `json:"audio_url"`
	DurationSeconds int      `json:"duration_seconds"`
	Location        *string  `json:"location"`
	Sentiment       *string  `json:"sentiment"`
	Tags            []string `json:"tags"`
	ChildIDs        []string `json:"child_ids"`
}

type updateNoteRequest struct {
	Transcript *string  `json:"transcript"`
	Summary    *string  `json:"summary"`
	Sentiment  *string  `json:"sentiment"`
	Tags       []string `json:"tags"`
	ChildIDs   []string `json:"child_ids"`
}

type noteResponse struct {
	ID              string    `json:"id"`
	AuthorID        string    `json:"author_id"`
	Transcript      string    `json:"transcript"`
	Summary         *string   `json:"summary,omitempty"`
	AudioURL        *string   `json:"audio_url,omitempty"`
	DurationSeconds int       `json:"duration_seconds"`
	Location        *string   `json:"location,omitempty"`
	Sentiment       *string   `json:"sentiment,omitempty"`
	Tags            []string  `json:"tags"`
	ChildIDs        []string  `json:"child_ids"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toNoteResponse(record *notedomain.Note) noteResponse {
	tags := []string(record.Tags)
	if tags == nil {
		tags = []string{}
	}
	childIDs := record.ChildIDs
	if childIDs == nil {
		childIDs = []string{}
	}
	return noteResponse{
		ID:              record.ID,
		AuthorID:        record.AuthorID,
		Transcript:      record.Transcript,
		Summary:         record.Summary,
		AudioURL:        record.AudioURL,
		DurationSeconds: record.DurationSeconds,
		Location:        record.Location,
		Sentiment:       record.Sentiment,
		Tags:            tags,
		ChildIDs:        childIDs,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}

func (h *Handlers) ListNotes(w http.ResponseWriter, r *http.Request) {
	_, member, ok := h.membership(w, r)
	if !ok {
		return
	}

	filter := notedomain.ListFilter{
		ChildID: r.URL.Query().Get("child_id"),
		Tag:     r.URL.Query().Get("tag"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "from must be RFC 3339")
			return
		}
		filter.From = from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "to must be RFC 3339")
			return
		}
		filter.To = to
	}

	notes, err := h.Notes.List(r.Context(), member.FamilyID, filter)
	if err != nil {
		h.log.InternalError("notes.list: list failed", err, "family_id", member.FamilyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	result := make([]noteResponse, 0, len(notes))
	for i := range notes {
		result = append(result, toNoteResponse(&notes[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": result})
}

func (h *Handlers) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, member, ok := h.membership(w, r)
	if !ok {
		return
	}

	record, err := h.Notes.Create(r.Context(), member.FamilyID, notedomain.CreateInput{
		AuthorID:        user.ID,
		Transcript:      req.Transcript,
		Summary:         req.Summary,
		AudioURL:        req.AudioURL,
		DurationSeconds: req.DurationSeconds,
		Location:        req.Location,
		Sentiment:       req.Sentiment,
		Tags:            req.Tags,
		ChildIDs:        req.ChildIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, notedomain.ErrTranscriptRequired):
			writeError(w, http.StatusBadRequest, "invalid_request", "transcript is required")
		case errors.Is(err, notedomain.ErrInvalidSentiment):
			writeError(w, http.StatusBadRequest, "invalid_request", "sentiment must be positive, neutral or negative")
		case errors.Is(err, notedomain.ErrUnknownChild):
			writeError(w, http.StatusBadRequest, "unknown_child", "one or more children do not belong to this family")
		default:
			h.log.InternalError("notes.create: create failed", err, "family_id", member.FamilyID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toNoteResponse(record))
}

func (h *Handlers) GetNote(w http.ResponseWriter, r *http.Request) {
	_, member, ok := h.membership(w, r)
	if !ok {
		return
	}

	noteID := chi.URLParam(r, "id")
	record, err := h.Notes.Get(r.Context(), member.FamilyID, noteID)
	if err != nil {
		if errors.Is(err, notedomain.ErrNoteNotFound) {
			writeError(w, http.StatusNotFound, "note_not_found", "note not found")
			return
		}
		h.log.InternalError("notes.get: get failed", err, "family_id", member.FamilyID, "note_id", noteID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(record))
}

func (h *Handlers) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req updateNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, member, ok := h.membership(w, r)
	if !ok {
		return
	}

	noteID := chi.URLParam(r, "id")
	record, err := h.Notes.Update(r.Context(), member.FamilyID, user.ID, member.Role, noteID, notedomain.UpdateInput{
		Transcript: req.Transcript,
		Summary:    req.Summary,
		Sentiment:  req.Sentiment,
		Tags:       req.Tags,
		ChildIDs:   req.ChildIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, notedomain.ErrNoteNotFound):
			writeError(w, http.StatusNotFound, "note_not_found", "note not found")
		case errors.Is(err, notedomain.ErrNotAuthor):
			writeError(w, http.StatusForbidden, "not_author", "only the author or a family admin can modify a note")
		case errors.Is(err, notedomain.ErrTranscriptRequired):
			writeError(w, http.StatusBadRequest, "invalid_request", "transcript is required")
		case errors.Is(err, notedomain.ErrInvalidSentiment):
			writeError(w, http.StatusBadRequest, "invalid_request", "sentiment must be positive, neutral or negative")
		case errors.Is(err, notedomain.ErrUnknownChild):
			writeError(w, http.StatusBadRequest, "unknown_child", "one or more children do not belong to this family")
		default:
			h.log.InternalError("notes.update: update failed", err, "family_id", member.FamilyID, "note_id", noteID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(record))
}

func (h *Handlers) DeleteNote(w http.ResponseWriter, r *http.Request) {
	user, member, ok := h.membership(w, r)
	if !ok {
		return
	}

	noteID := chi.URLParam(r, "id")
	if err := h.Notes.Delete(r.Context(), member.FamilyID, user.ID, member.Role, noteID); err != nil {
		switch {
		case errors.Is(err, notedomain.ErrNoteNotFound):
			writeError(w, http.StatusNotFound, "note_not_found", "note not found")
		case errors.Is(err, notedomain.ErrNotAuthor):
			writeError(w, http.StatusForbidden, "not_author", "only the author or a family admin can delete a note")
		default:
			h.log.InternalError("notes.delete: delete failed", err, "family_id", member.FamilyID, "note_id", noteID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
