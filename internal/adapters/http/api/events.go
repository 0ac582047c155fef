package api

import (
	"net/http"

	"github.com/okian/clubrank/internal/domain/model"
	"github.com/okian/clubrank/internal/domain/ranking"
	"github.com/okian/clubrank/internal/domain/types"
)

// EventsHandler handles competition events.
type EventsHandler struct {
	deps Dependencies
	errs errorWriter
}

// HandleList handles GET /events[?season=YYYY|all]. Without a season every event is listed.
func (h *EventsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_events"
	season, err := parseSeason(r.URL.Query().Get("season"), ranking.AllSeasons)
	if err != nil {
		h.errs.write(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	events, err := h.deps.ListEvents(r.Context(), season)
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewList(events))
}

// HandleCreate handles POST /events.
func (h *EventsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_event"
	var in model.EventInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.errs.write(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	ev, err := h.deps.CreateEvent(r.Context(), in)
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// HandleGet handles GET /events/{id}.
func (h *EventsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_event"
	ev, err := h.deps.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleUpdate handles PUT /events/{id}. Results of the event are rescored
// when its type or target count changes.
func (h *EventsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_event"
	var patch model.EventPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.errs.write(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	ev, err := h.deps.UpdateEvent(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleDelete handles DELETE /events/{id}.
func (h *EventsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_event"
	if err := h.deps.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAvailableShooters handles GET /events/{id}/available-shooters.
func (h *EventsHandler) HandleAvailableShooters(w http.ResponseWriter, r *http.Request) {
	const op = "api.available_shooters"
	shooters, err := h.deps.AvailableShooters(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewList(shooters))
}
