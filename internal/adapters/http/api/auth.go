package api

import (
	"net/http"

	"github.com/okian/clubrank/internal/domain/types"
)

// AuthHandler handles admin sign-in and sign-out.
type AuthHandler struct {
	deps Dependencies
	errs errorWriter
}

// HandleLogin handles POST /auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "api.login"
	var req types.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.write(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	sess, err := h.deps.SignIn(r.Context(), req)
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// HandleLogout handles POST /auth/logout.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	const op = "api.logout"
	if err := h.deps.SignOut(r.Context(), bearerToken(r)); err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSession handles GET /auth/session.
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.session"
	token := bearerToken(r)
	if token == "" {
		h.errs.write(w, r, op, NewKind(op, ErrUnauthorized))
		return
	}
	sess, err := h.deps.Session(r.Context(), token)
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
