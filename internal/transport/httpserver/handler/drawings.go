package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"family-journal-go/internal/aigateway"
	drawingdomain "family-journal-go/internal/domain/drawing"
)

type createDrawingRequest struct {
	ChildID  string  `json:"child_id"`
	ImageURL string  `json:"image_url"`
	Title    *string `json:"title"`
}

type analyzeDrawingRequest struct {
	DrawingID string `json:"drawing_id"`
	ImageURL  string `json:"image_url"`
	ChildName string `json:"child_name"`
	Language  string `json:"language"`
}

type drawingResponse struct {
	ID         string     `json:"id"`
	ChildID    string     `json:"child_id"`
	UploadedBy string     `json:"uploaded_by"`
	ImageURL   string     `json:"image_url"`
	Title      *string    `json:"title,omitempty"`
	AnalyzedAt *time.Time `json:"analyzed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toDrawingResponse(record *drawingdomain.Drawing) drawingResponse {
	return drawingResponse{
		ID:         record.ID,
		ChildID:    record.ChildID,
		UploadedBy: record.UploadedBy,
		ImageURL:   record.ImageURL,
		Title:      record.Title,
		AnalyzedAt: record.AnalyzedAt,
		CreatedAt:  record.CreatedAt,
	}
}

func (h *Handlers) ListDrawings(w http.ResponseWriter, r *http.Request) {
	_, member, ok := h.membership(w, r)
	if !ok {
		return
	}

	drawings, err := h.Drawings.List(r.Context(), member.FamilyID, r.URL.Query().Get("child_id"))
	if err != nil {
		h.log.InternalError("drawings.list: list failed", err, "family_id", member.FamilyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	result := make([]drawingResponse, 0, len(drawings))
	for i := range drawings {
		result = append(result, toDrawingResponse(&drawings[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"drawings": result})
}

func (h *Handlers) CreateDrawing(w http.ResponseWriter, r *http.Request) {
	var req createDrawingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, member, ok := h.membership(w, r)
	if !ok {
		return
	}

	record, err := h.Drawings.Create(r.Context(), member.FamilyID, drawingdomain.CreateInput{
		ChildID:    req.ChildID,
		UploadedBy: user.ID,
		ImageURL:   req.ImageURL,
		Title:      req.Title,
	})
	if err != nil {
		switch {
		case errors.Is(err, drawingdomain.ErrImageRequired):
			writeError(w, http.StatusBadRequest, "invalid_request", "image_url is required")
		case errors.Is(err, drawingdomain.ErrChildRequired):
			writeError(w, http.StatusBadRequest, "invalid_request", "child_id is required")
		default:
			h.log.InternalError("drawings.create: create failed", err, "family_id", member.FamilyID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toDrawingResponse(record))
}

func (h *Handlers) DeleteDrawing(w http.ResponseWriter, r *http.Request) {
	_, member, ok := h.membership(w, r)
	if !ok {
		return
	}

	drawingID := chi.URLParam(r, "id")
	if err := h.Drawings.Delete(r.Context(), member.FamilyID, drawingID); err != nil {
		if errors.Is(err, drawingdomain.ErrDrawingNotFound) {
			writeError(w, http.StatusNotFound, "drawing_not_found", "drawing not found")
			return
		}
		h.log.InternalError("drawings.delete: delete failed", err, "family_id", member.FamilyID, "drawing_id", drawingID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AnalyzeDrawing(w http.ResponseWriter, r *http.Request) {
	var req analyzeDrawingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	_, member, ok := h.membership(w, r)
	if !ok {
		return
	}

	analysis, err := h.Drawings.Analyze(r.Context(), member.FamilyID, drawingdomain.AnalyzeInput{
		DrawingID: req.DrawingID,
		ImageURL:  req.ImageURL,
		ChildName: req.ChildName,
		Language:  req.Language,
	})
	if err != nil {
		switch {
		case errors.Is(err, drawingdomain.ErrDrawingNotFound):
			writeError(w, http.StatusNotFound, "drawing_not_found", "drawing not found")
		case errors.Is(err, drawingdomain.ErrImageRequired):
			writeError(w, http.StatusBadRequest, "invalid_request", "image_url or drawing_id is required")
		case errors.Is(err, aigateway.ErrRateLimited):
			h.log.BusinessError("drawings.analyze: rate limited", err, "family_id", member.FamilyID)
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, try again later")
		case errors.Is(err, aigateway.ErrQuotaExceeded):
			h.log.BusinessError("drawings.analyze: quota exceeded", err, "family_id", member.FamilyID)
			writeError(w, http.StatusPaymentRequired, "quota_exceeded", "ai usage quota exceeded")
		case errors.Is(err, aigateway.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "ai_not_configured", "ai analysis is not configured")
		default:
			h.log.InternalError("drawings.analyze: analysis failed", err, "family_id", member.FamilyID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"analysis": analysis})
}
