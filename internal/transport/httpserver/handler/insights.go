package handler

import (
	"errors"
	"net/http"

	"family-journal-go/internal/aigateway"
	insightsdomain "family-journal-go/internal/domain/insights"
)

type analyzeBehaviorRequest struct {
	ChildID  string `json:"child_id"`
	Language string `json:"language"`
}

type generateSummaryRequest struct {
	Transcript string `json:"transcript"`
	Language   string `json:"language"`
}

func (h *Handlers) AnalyzeBehavior(w http.ResponseWriter, r *http.Request) {
	var req analyzeBehaviorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	_, member, ok := h.membership(w, r)
	if !ok {
		return
	}

	result, err := h.Insights.Behavior(r.Context(), member.FamilyID, req.ChildID, req.Language)
	if err != nil {
		switch {
		case errors.Is(err, aigateway.ErrRateLimited):
			h.log.BusinessError("insights.behavior: rate limited", err, "family_id", member.FamilyID)
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, try again later")
		case errors.Is(err, aigateway.ErrQuotaExceeded):
			h.log.BusinessError("insights.behavior: quota exceeded", err, "family_id", member.FamilyID)
			writeError(w, http.StatusPaymentRequired, "quota_exceeded", "ai usage quota exceeded")
		case errors.Is(err, aigateway.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "ai_not_configured", "ai analysis is not configured")
		default:
			h.log.InternalError("insights.behavior: analysis failed", err, "family_id", member.FamilyID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	// Still a 200; the client shows the empty state from the error field.
	if result.NoNotes {
		writeJSON(w, http.StatusOK, map[string]string{"error": "no notes to analyze"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	var req generateSummaryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	_, member, ok := h.membership(w, r)
	if !ok {
		return
	}

	summary, err := h.Insights.Summary(r.Context(), req.Transcript, req.Language)
	if err != nil {
		switch {
		case errors.Is(err, insightsdomain.ErrTranscriptRequired):
			writeError(w, http.StatusBadRequest, "invalid_request", "transcript is required")
		case errors.Is(err, aigateway.ErrRateLimited):
			h.log.BusinessError("insights.summary: rate limited", err, "family_id", member.FamilyID)
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, try again later")
		case errors.Is(err, aigateway.ErrQuotaExceeded):
			h.log.BusinessError("insights.summary: quota exceeded", err, "family_id", member.FamilyID)
			writeError(w, http.StatusPaymentRequired, "quota_exceeded", "ai usage quota exceeded")
		case errors.Is(err, aigateway.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "ai_not_configured", "ai analysis is not configured")
		default:
			h.log.InternalError("insights.summary: generation failed", err, "family_id", member.FamilyID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}
