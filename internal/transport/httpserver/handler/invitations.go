package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	familydomain "family-journal-go/internal/domain/family"
	"family-journal-go/internal/transport/httpserver/middleware"
)

type createInvitationRequest struct {
	Email string `json:"email"`
}

type acceptInvitationRequest struct {
	Token string `json:"token"`
}

type invitationResponse struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	InvitedBy string    `json:"invited_by"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toInvitationResponse(invitation *familydomain.Invitation) invitationResponse {
	return invitationResponse{
		ID:        invitation.ID,
		FamilyID:  invitation.FamilyID,
		InvitedBy: invitation.InvitedBy,
		Email:     invitation.Email,
		Status:    invitation.Status,
		CreatedAt: invitation.CreatedAt,
		ExpiresAt: invitation.ExpiresAt,
	}
}

func (h *Handlers) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	var req createInvitationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	invitation, link, err := h.Families.CreateInvitation(r.Context(), familydomain.Actor{ID: user.ID, Email: user.Email}, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrInvalidEmail):
			h.log.BusinessError("invitations.create: invalid email", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "invalid_email", "invalid email address")
		case errors.Is(err, familydomain.ErrNoFamily):
			h.log.BusinessError("invitations.create: no family", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "no_family", "no family found")
		case errors.Is(err, familydomain.ErrInsufficientRole):
			h.log.BusinessError("invitations.create: insufficient role", err, "user_id", user.ID)
			writeError(w, http.StatusForbidden, "insufficient_role", "only owners and admins can invite")
		case errors.Is(err, familydomain.ErrSelfInvite):
			h.log.BusinessError("invitations.create: self invite", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "self_invite", "you cannot invite yourself")
		case errors.Is(err, familydomain.ErrAlreadyMember):
			h.log.BusinessError("invitations.create: already a member", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "already_member", "this email already belongs to a family member")
		case errors.Is(err, familydomain.ErrInvitationExists):
			h.log.BusinessError("invitations.create: pending invitation exists", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "invitation_exists", "a pending invitation for this email already exists")
		default:
			h.log.InternalError("invitations.create: create failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"invitation":      toInvitationResponse(invitation),
		"invitation_link": link,
	})
}

func (h *Handlers) ListInvitations(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	invitations, err := h.Families.ListInvitations(r.Context(), familydomain.Actor{ID: user.ID, Email: user.Email})
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrNoFamily):
			h.log.BusinessError("invitations.list: no family", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "no_family", "no family found")
		case errors.Is(err, familydomain.ErrInsufficientRole):
			h.log.BusinessError("invitations.list: insufficient role", err, "user_id", user.ID)
			writeError(w, http.StatusForbidden, "insufficient_role", "insufficient role")
		default:
			h.log.InternalError("invitations.list: list failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	result := make([]invitationResponse, 0, len(invitations))
	for i := range invitations {
		result = append(result, toInvitationResponse(&invitations[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"invitations": result})
}

func (h *Handlers) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var req acceptInvitationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	family, err := h.Families.AcceptInvitation(r.Context(), familydomain.Actor{ID: user.ID, Email: user.Email}, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrInvitationNotFound):
			h.log.BusinessError("invitations.accept: invitation not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "invitation_not_found", "invitation not found")
		case errors.Is(err, familydomain.ErrAlreadyAccepted):
			h.log.BusinessError("invitations.accept: already accepted", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "already_accepted", "this invitation was already accepted")
		case errors.Is(err, familydomain.ErrInvitationExpired):
			h.log.BusinessError("invitations.accept: invitation expired", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "invitation_expired", "this invitation has expired")
		case errors.Is(err, familydomain.ErrInvitationCancelled):
			h.log.BusinessError("invitations.accept: invitation cancelled", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "invitation_cancelled", "this invitation was cancelled")
		case errors.Is(err, familydomain.ErrWrongRecipient):
			h.log.BusinessError("invitations.accept: wrong recipient", err, "user_id", user.ID)
			writeError(w, http.StatusForbidden, "wrong_recipient", "this invitation was sent to a different email address")
		case errors.Is(err, familydomain.ErrAlreadyMember):
			h.log.BusinessError("invitations.accept: already a member", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "already_member", "you already belong to this family")
		case errors.Is(err, familydomain.ErrOtherFamily):
			h.log.BusinessError("invitations.accept: member of another family", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "other_family", "you already belong to another family")
		default:
			h.log.InternalError("invitations.accept: accept failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "welcome to " + family.Name,
		"family":  toFamilyResponse(family),
	})
}

func (h *Handlers) CancelInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	invitationID := chi.URLParam(r, "id")
	err := h.Families.CancelInvitation(r.Context(), familydomain.Actor{ID: user.ID, Email: user.Email}, invitationID)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrNoFamily):
			h.log.BusinessError("invitations.cancel: no family", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "no_family", "no family found")
		case errors.Is(err, familydomain.ErrInvitationNotFound):
			h.log.BusinessError("invitations.cancel: invitation not found", err, "user_id", user.ID, "invitation_id", invitationID)
			writeError(w, http.StatusNotFound, "invitation_not_found", "invitation not found")
		case errors.Is(err, familydomain.ErrInsufficientRole):
			h.log.BusinessError("invitations.cancel: insufficient role", err, "user_id", user.ID)
			writeError(w, http.StatusForbidden, "insufficient_role", "insufficient role")
		default:
			h.log.InternalError("invitations.cancel: cancel failed", err, "user_id", user.ID, "invitation_id", invitationID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
