package repository

import (
	"cmp"
	"errors"
	"slices"
	"time"

	"github.com/okian/clubrank/internal/domain/model"
	"github.com/okian/clubrank/pkg/metrics"
)

// observe records a store call's outcome and latency. Use as
// defer observe("op", time.Now(), &err).
func observe(op string, start time.Time, errp *error) {
	outcome := "ok"
	if errp != nil && *errp != nil {
		switch {
		case errors.Is(*errp, ErrNotFound):
			outcome = "not_found"
		case errors.Is(*errp, ErrConflict):
			outcome = "conflict"
		default:
			outcome = "error"
		}
	}
	metrics.RecordStoreOperation(op, outcome, float64(time.Since(start).Microseconds())/1000)
}

// rescored copies the derived fields of r onto the stored result.
func rescored(stored, r model.Result) model.Result {
	stored.Effectiveness = r.Effectiveness
	stored.WeightedEffectiveness = r.WeightedEffectiveness
	return stored
}

// Ordering shared by every implementation.

func sortShooters(s []model.Shooter) {
	slices.SortFunc(s, func(a, b model.Shooter) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
}

func sortEvents(e []model.Event) {
	slices.SortFunc(e, func(a, b model.Event) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
}

func sortResults(r []model.Result) {
	slices.SortFunc(r, func(a, b model.Result) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
}
