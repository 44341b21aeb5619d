package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	childdomain "family-journal-go/internal/domain/child"
)

type createChildRequest struct {
	Name      string  `json:"name"`
	Birthdate string  `json:"birthdate"`
	PhotoURL  *string `json:"photo_url"`
}

type updateChildRequest struct {
	Name       *string `json:"name"`
	Birthdate  *string `json:"birthdate"`
	PhotoURL   *string `json:"photo_url"`
	ClearPhoto bool    `json:"clear_photo"`
}

type childResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Birthdate string    `json:"birthdate"`
	PhotoURL  *string   `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const birthdateLayout = "2006-01-02"

func toChildResponse(record *childdomain.Child) childResponse {
	return childResponse{
		ID:        record.ID,
		Name:      record.Name,
		Birthdate: record.Birthdate.Format(birthdateLayout),
		PhotoURL:  record.PhotoURL,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func (h *Handlers) ListChildren(w http.ResponseWriter, r *http.Request) {
	_, member, ok := h.membership(w, r)
	if !ok {
		return
	}

	children, err := h.Children.List(r.Context(), member.FamilyID)
	if err != nil {
		h.log.InternalError("children.list: list failed", err, "family_id", member.FamilyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	result := make([]childResponse, 0, len(children))
	for i := range children {
		result = append(result, toChildResponse(&children[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"children": result})
}

func (h *Handlers) CreateChild(w http.ResponseWriter, r *http.Request) {
	var req createChildRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	birthdate, err := time.Parse(birthdateLayout, req.Birthdate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "birthdate must be YYYY-MM-DD")
		return
	}

	_, member, ok := h.membership(w, r)
	if !ok {
		return
	}

	record, err := h.Children.Create(r.Context(), member.FamilyID, childdomain.CreateInput{
		Name:      req.Name,
		Birthdate: birthdate,
		PhotoURL:  req.PhotoURL,
	})
	if err != nil {
		if errors.Is(err, childdomain.ErrNameRequired) {
			writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
			return
		}
		h.log.InternalError("children.create: create failed", err, "family_id", member.FamilyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toChildResponse(record))
}

func (h *Handlers) GetChild(w http.ResponseWriter, r *http.Request) {
	_, member, ok := h.membership(w, r)
	if !ok {
		return
	}

	childID := chi.URLParam(r, "id")
	record, err := h.Children.Get(r.Context(), member.FamilyID, childID)
	if err != nil {
		if errors.Is(err, childdomain.ErrChildNotFound) {
			writeError(w, http.StatusNotFound, "child_not_found", "child not found")
			return
		}
		h.log.InternalError("children.get: get failed", err, "family_id", member.FamilyID, "child_id", childID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toChildResponse(record))
}

func (h *Handlers) UpdateChild(w http.ResponseWriter, r *http.Request) {
	var req updateChildRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := childdomain.UpdateInput{
		Name:       req.Name,
		PhotoURL:   req.PhotoURL,
		ClearPhoto: req.ClearPhoto,
	}
	if req.Birthdate != nil {
		birthdate, err := time.Parse(birthdateLayout, *req.Birthdate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "birthdate must be YYYY-MM-DD")
			return
		}
		input.Birthdate = &birthdate
	}

	_, member, ok := h.membership(w, r)
	if !ok {
		return
	}

	childID := chi.URLParam(r, "id")
	record, err := h.Children.Update(r.Context(), member.FamilyID, childID, input)
	if err != nil {
		switch {
		case errors.Is(err, childdomain.ErrChildNotFound):
			writeError(w, http.StatusNotFound, "child_not_found", "child not found")
		case errors.Is(err, childdomain.ErrNameRequired):
			writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		default:
			h.log.InternalError("children.update: update failed", err, "family_id", member.FamilyID, "child_id", childID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toChildResponse(record))
}

func (h *Handlers) DeleteChild(w http.ResponseWriter, r *http.Request) {
	_, member, ok := h.membership(w, r)
	if !ok {
		return
	}

	childID := chi.URLParam(r, "id")
	if err := h.Children.Delete(r.Context(), member.FamilyID, childID); err != nil {
		if errors.Is(err, childdomain.ErrChildNotFound) {
			writeError(w, http.StatusNotFound, "child_not_found", "child not found")
			return
		}
		h.log.InternalError("children.delete: delete failed", err, "family_id", member.FamilyID, "child_id", childID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
