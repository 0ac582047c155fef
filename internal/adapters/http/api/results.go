package api

import (
	"net/http"

	service "github.com/okian/clubrank/internal/app"
	"github.com/okian/clubrank/internal/domain/model"
	"github.com/okian/clubrank/internal/domain/types"
)

// ResultsHandler handles competition results.
type ResultsHandler struct {
	deps Dependencies
	errs errorWriter
}

// HandleList handles GET /results[?event_id=...&shooter_id=...].
func (h *ResultsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_results"
	q := r.URL.Query()
	results, err := h.deps.ListResults(r.Context(), service.ResultFilter{
		EventID:   q.Get("event_id"),
		ShooterID: q.Get("shooter_id"),
	})
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewList(results))
}

// HandleCreate handles POST /results.
func (h *ResultsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_result"
	var in model.ResultInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.errs.write(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.CreateResult(r.Context(), in)
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// HandleGet handles GET /results/{id}.
func (h *ResultsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_result"
	res, err := h.deps.GetResult(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleUpdate handles PUT /results/{id}.
func (h *ResultsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_result"
	var patch model.ResultPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.errs.write(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.UpdateResult(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleDelete handles DELETE /results/{id}.
func (h *ResultsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_result"
	if err := h.deps.DeleteResult(r.Context(), r.PathValue("id")); err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
