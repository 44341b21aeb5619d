package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	familydomain "family-journal-go/internal/domain/family"
	"family-journal-go/internal/transport/httpserver/middleware"
)

type createFamilyRequest struct {
	Name string `json:"name"`
}

type updateFamilyRequest struct {
	Name string `json:"name"`
}

type setMemberLabelRequest struct {
	Label *string `json:"label"`
}

type familyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type memberResponse struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Label     *string   `json:"label,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
	Email     *string   `json:"email,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

func toFamilyResponse(family *familydomain.Family) familyResponse {
	return familyResponse{
		ID:        family.ID,
		Name:      family.Name,
		CreatedAt: family.CreatedAt,
		UpdatedAt: family.UpdatedAt,
	}
}

func (h *Handlers) GetFamilyMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Families.GetFamilyByUser(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, familydomain.ErrNoFamily) {
			h.log.BusinessError("families.get_me: no family", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "no_family", "no family found")
			return
		}
		h.log.InternalError("families.get_me: get family failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(result))
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Families.CreateFamily(r.Context(), familydomain.Actor{ID: user.ID, Email: user.Email}, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrAlreadyInFamily):
			h.log.BusinessError("families.create: user already in family", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "already_in_family", "already in family")
		default:
			h.log.InternalError("families.create: create family failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toFamilyResponse(result))
}

func (h *Handlers) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	var req updateFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Families.UpdateFamilyName(r.Context(), familydomain.Actor{ID: user.ID, Email: user.Email}, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrNoFamily):
			h.log.BusinessError("families.update: no family", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "no_family", "no family found")
		case errors.Is(err, familydomain.ErrInsufficientRole):
			h.log.BusinessError("families.update: insufficient role", err, "user_id", user.ID)
			writeError(w, http.StatusForbidden, "insufficient_role", "insufficient role")
		default:
			h.log.InternalError("families.update: update failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(result))
}

func (h *Handlers) LeaveFamily(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Families.LeaveFamily(r.Context(), familydomain.Actor{ID: user.ID, Email: user.Email}); err != nil {
		switch {
		case errors.Is(err, familydomain.ErrNoFamily):
			h.log.BusinessError("families.leave: no family", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "no_family", "no family found")
		case errors.Is(err, familydomain.ErrOwnerMustTransfer):
			h.log.BusinessError("families.leave: owner must transfer first", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "owner_must_transfer", "owner cannot leave while other members remain")
		default:
			h.log.InternalError("families.leave: leave failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListFamilyMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	members, err := h.Families.ListMembersWithProfiles(r.Context(), familydomain.Actor{ID: user.ID, Email: user.Email})
	if err != nil {
		if errors.Is(err, familydomain.ErrNoFamily) {
			h.log.BusinessError("families.members: no family", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "no_family", "no family found")
			return
		}
		h.log.InternalError("families.members: list failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	result := make([]memberResponse, 0, len(members))
	for _, member := range members {
		result = append(result, memberResponse{
			UserID:    member.UserID,
			Role:      member.Role,
			Label:     member.Label,
			JoinedAt:  member.JoinedAt,
			Email:     member.Email,
			AvatarURL: member.AvatarURL,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": result})
}

func (h *Handlers) SetMemberLabel(w http.ResponseWriter, r *http.Request) {
	var req setMemberLabelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	memberUserID := chi.URLParam(r, "user_id")
	err := h.Families.SetMemberLabel(r.Context(), familydomain.Actor{ID: user.ID, Email: user.Email}, memberUserID, req.Label)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrNoFamily):
			h.log.BusinessError("families.set_label: no family", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "no_family", "no family found")
		case errors.Is(err, familydomain.ErrInsufficientRole):
			h.log.BusinessError("families.set_label: insufficient role", err, "user_id", user.ID)
			writeError(w, http.StatusForbidden, "insufficient_role", "insufficient role")
		case errors.Is(err, familydomain.ErrMemberNotFound):
			h.log.BusinessError("families.set_label: member not found", err, "user_id", user.ID, "member_id", memberUserID)
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		default:
			h.log.InternalError("families.set_label: update failed", err, "user_id", user.ID, "member_id", memberUserID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handlers) RemoveFamilyMember(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	memberUserID := chi.URLParam(r, "user_id")
	err := h.Families.RemoveMember(r.Context(), familydomain.Actor{ID: user.ID, Email: user.Email}, memberUserID)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrNoFamily):
			h.log.BusinessError("families.remove_member: no family", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "no_family", "no family found")
		case errors.Is(err, familydomain.ErrInsufficientRole):
			h.log.BusinessError("families.remove_member: insufficient role", err, "user_id", user.ID)
			writeError(w, http.StatusForbidden, "insufficient_role", "insufficient role")
		case errors.Is(err, familydomain.ErrMemberNotFound):
			h.log.BusinessError("families.remove_member: member not found", err, "user_id", user.ID, "member_id", memberUserID)
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		case errors.Is(err, familydomain.ErrCannotRemoveOwner):
			h.log.BusinessError("families.remove_member: cannot remove owner", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "cannot_remove_owner", "cannot remove the family owner")
		default:
			h.log.InternalError("families.remove_member: remove failed", err, "user_id", user.ID, "member_id", memberUserID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
