package handler

import (
	"errors"
	"net/http"

	familydomain "family-journal-go/internal/domain/family"
	"family-journal-go/internal/transport/httpserver/middleware"
)

// membership resolves the calling user and their family membership, writing
// the error response itself when either is missing.
func (h *Handlers) membership(w http.ResponseWriter, r *http.Request) (middleware.User, *familydomain.FamilyMember, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return middleware.User{}, nil, false
	}

	member, err := h.Families.Membership(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, familydomain.ErrNoFamily) {
			h.log.BusinessError("membership: no family", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "no_family", "no family found")
			return middleware.User{}, nil, false
		}
		h.log.InternalError("membership: lookup failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return middleware.User{}, nil, false
	}

	return user, member, true
}
