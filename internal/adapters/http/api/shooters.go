package api

import (
	"net/http"

	"github.com/okian/clubrank/internal/domain/model"
	"github.com/okian/clubrank/internal/domain/types"
)

// ShootersHandler handles the shooter roster.
type ShootersHandler struct {
	deps Dependencies
	errs errorWriter
}

// HandleList handles GET /shooters[?active=true].
func (h *ShootersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_shooters"
	activeOnly, err := parseBool(r.URL.Query().Get("active"))
	if err != nil {
		h.errs.write(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	shooters, err := h.deps.ListShooters(r.Context(), activeOnly)
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewList(shooters))
}

// HandleCreate handles POST /shooters.
func (h *ShootersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_shooter"
	var in model.ShooterInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.errs.write(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	sh, err := h.deps.CreateShooter(r.Context(), in)
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, sh)
}

// HandleGet handles GET /shooters/{id}.
func (h *ShootersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_shooter"
	sh, err := h.deps.GetShooter(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, sh)
}

// HandleUpdate handles PUT /shooters/{id}.
func (h *ShootersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_shooter"
	var patch model.ShooterPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.errs.write(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	sh, err := h.deps.UpdateShooter(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, sh)
}

// HandleDeactivate handles POST /shooters/{id}/deactivate.
func (h *ShootersHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	const op = "api.deactivate_shooter"
	sh, err := h.deps.DeactivateShooter(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, sh)
}

// HandleDelete handles DELETE /shooters/{id}. The shooter's results go with it.
func (h *ShootersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_shooter"
	if err := h.deps.DeleteShooter(r.Context(), r.PathValue("id")); err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
