package handler

import (
	"errors"
	"net/http"

	notiondomain "family-journal-go/internal/domain/notion"
	"family-journal-go/internal/transport/httpserver/middleware"
)

type notionSaveRequest struct {
	Transcript      string   `json:"transcript"`
	AudioURL        string   `json:"audio_url"`
	Children        []string `json:"children"`
	Tags            []string `json:"tags"`
	Sentiment       string   `json:"sentiment"`
	DurationSeconds int      `json:"duration_seconds"`
	Location        string   `json:"location"`
}

func (h *Handlers) NotionOAuthState(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	authURL, stateToken, err := h.Notion.AuthURL(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, notiondomain.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, "notion_not_configured", "notion integration is not configured")
			return
		}
		h.log.InternalError("notion.state: create state failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"state_token": stateToken,
		"auth_url":    authURL,
	})
}

// NotionOAuthCallback is hit by the browser redirect from Notion, so it
// answers with a small HTML page instead of JSON. No bearer token here; the
// state token identifies the user.
func (h *Handlers) NotionOAuthCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if errCode := query.Get("error"); errCode != "" {
		h.log.Warn("notion.callback: consent denied", "error", errCode)
		writeCallbackPage(w, http.StatusBadRequest, "Connection cancelled", "You can close this window and try again from the app.")
		return
	}

	err := h.Notion.HandleCallback(r.Context(), query.Get("code"), query.Get("state"))
	if err != nil {
		switch {
		case errors.Is(err, notiondomain.ErrStateNotFound):
			h.log.BusinessError("notion.callback: state not found", err)
			writeCallbackPage(w, http.StatusBadRequest, "Link expired", "This connection link is no longer valid. Start again from the app.")
		case errors.Is(err, notiondomain.ErrStateExpired):
			h.log.BusinessError("notion.callback: state expired", err)
			writeCallbackPage(w, http.StatusBadRequest, "Link expired", "This connection link has expired. Start again from the app.")
		case errors.Is(err, notiondomain.ErrNotConfigured):
			writeCallbackPage(w, http.StatusServiceUnavailable, "Not available", "The Notion integration is not configured.")
		default:
			h.log.InternalError("notion.callback: callback failed", err)
			writeCallbackPage(w, http.StatusInternalServerError, "Something went wrong", "We could not complete the connection. Please try again.")
		}
		return
	}

	writeCallbackPage(w, http.StatusOK, "Notion connected", "You can close this window and return to the app.")
}

func (h *Handlers) NotionStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	conn, err := h.Notion.Status(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, notiondomain.ErrNotConnected) {
			writeJSON(w, http.StatusOK, map[string]any{"connected": false})
			return
		}
		h.log.InternalError("notion.status: lookup failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"connected":      true,
		"workspace_name": conn.WorkspaceName,
	})
}

func (h *Handlers) NotionSave(w http.ResponseWriter, r *http.Request) {
	var req notionSaveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Notion.SaveEntry(r.Context(), user.ID, notiondomain.SaveInput{
		Transcript:      req.Transcript,
		AudioURL:        req.AudioURL,
		Children:        req.Children,
		Tags:            req.Tags,
		Sentiment:       req.Sentiment,
		DurationSeconds: req.DurationSeconds,
		Location:        req.Location,
	})
	if err != nil {
		switch {
		case errors.Is(err, notiondomain.ErrTranscriptRequired):
			writeError(w, http.StatusBadRequest, "invalid_request", "transcript is required")
		case errors.Is(err, notiondomain.ErrNotConnected):
			h.log.BusinessError("notion.save: not connected", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "notion_not_connected", "connect notion before saving entries")
		default:
			h.log.InternalError("notion.save: save failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"page_id": result.PageID,
		"url":     result.URL,
	})
}

func (h *Handlers) NotionDisconnect(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Notion.Disconnect(r.Context(), user.ID); err != nil {
		h.log.InternalError("notion.disconnect: delete failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func writeCallbackPage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	// Success pages close the popup after a moment; window.close is a
	// no-op for tabs the script did not open, so the text stays as a
	// fallback.
	script := ""
	if status < 400 {
		script = "<script>setTimeout(function(){window.close();},1500);</script>"
	}
	_, _ = w.Write([]byte(
		"<!DOCTYPE html><html><head><title>" + title + "</title></head>" +
			"<body style=\"font-family: sans-serif; text-align: center; padding-top: 4rem;\">" +
			"<h1>" + title + "</h1><p>" + message + "</p>" + script + "</body></html>"))
}
