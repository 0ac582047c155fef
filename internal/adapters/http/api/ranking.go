package api

import "net/http"

// RankingHandler serves season standings.
type RankingHandler struct {
	deps Dependencies
	errs errorWriter
}

// HandleRanking handles GET /ranking[?season=YYYY|all]. The current season is the default.
func (h *RankingHandler) HandleRanking(w http.ResponseWriter, r *http.Request) {
	const op = "api.ranking"
	season, err := parseSeason(r.URL.Query().Get("season"), h.deps.CurrentSeason())
	if err != nil {
		h.errs.write(w, r, op, WrapKind(op, ErrBadRequest, err))
		return
	}
	st, err := h.deps.Ranking(r.Context(), season)
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleSeasons handles GET /seasons.
func (h *RankingHandler) HandleSeasons(w http.ResponseWriter, r *http.Request) {
	const op = "api.seasons"
	seasons, err := h.deps.Seasons(r.Context())
	if err != nil {
		h.errs.write(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, seasons)
}
