// Package ranking builds the season standings from shooters, events and results.
// Everything here is pure: it reads an already-fetched snapshot and keeps no state.
package ranking

import (
	"cmp"
	"slices"

	"github.com/okian/clubrank/internal/domain/model"
)

// Qualification thresholds.
const (
	MinEvents         = 4
	MinOfficialEvents = 2
)

// AllSeasons disables the season filter in Generate.
const AllSeasons = 0

// ResultWithEvent is a result joined to the event it was scored at.
type ResultWithEvent struct {
	model.Result
	Event model.Event `json:"event"`
}

// Entry is one shooter's aggregated line in a ranking.
type Entry struct {
	Shooter              model.Shooter     `json:"shooter"`
	TotalEvents          int               `json:"total_events"`
	OfficialEvents       int               `json:"official_events"`
	InternalEvents       int               `json:"internal_events"`
	AverageEffectiveness float64           `json:"average_effectiveness"`
	WeightedAverage      float64           `json:"weighted_average_effectiveness"`
	Category             Category          `json:"category"`
	Qualifies            bool              `json:"qualifies"`
	Results              []ResultWithEvent `json:"results"`
}

// Qualifies reports whether the event counts meet the ranking minimums.
func Qualifies(officialEvents, totalEvents int) bool {
	return totalEvents >= MinEvents && officialEvents >= MinOfficialEvents
}

// EventIndex maps event id to event.
type EventIndex map[string]model.Event

// IndexEvents builds an EventIndex.
func IndexEvents(events []model.Event) EventIndex {
	idx := make(EventIndex, len(events))
	for _, e := range events {
		idx[e.ID] = e
	}
	return idx
}

// BuildEntry aggregates one shooter's results against the events in scope.
// Results whose event is not in scope are dropped. The averages are plain
// means of the stored per-result values.
func BuildEntry(shooter model.Shooter, results []model.Result, events EventIndex) Entry {
	entry := Entry{
		Shooter:  shooter,
		Category: Unclassified,
		Results:  make([]ResultWithEvent, 0, len(results)),
	}

	var sumRaw, sumWeighted float64
	for _, r := range results {
		ev, ok := events[r.EventID]
		if !ok {
			continue
		}
		switch ev.Type {
		case model.EventOfficial:
			entry.OfficialEvents++
		case model.EventInternal:
			entry.InternalEvents++
		default:
			continue
		}
		entry.Results = append(entry.Results, ResultWithEvent{Result: r, Event: ev})
		sumRaw += r.Effectiveness
		sumWeighted += r.WeightedEffectiveness
	}

	entry.TotalEvents = entry.OfficialEvents + entry.InternalEvents
	if n := len(entry.Results); n > 0 {
		entry.AverageEffectiveness = sumRaw / float64(n)
		entry.WeightedAverage = sumWeighted / float64(n)
	}

	entry.Qualifies = Qualifies(entry.OfficialEvents, entry.TotalEvents)
	if entry.Qualifies {
		entry.Category = Classify(entry.WeightedAverage)
	}
	return entry
}

// Snapshot is a consistent read of everything a ranking needs.
type Snapshot struct {
	Shooters []model.Shooter
	Events   []model.Event
	Results  []model.Result
}

// Generate computes the ordered ranking for a season, or for every season
// when season is AllSeasons. Qualifying entries come first, each group
// ordered by weighted average descending; ties keep shooter input order.
func Generate(snap Snapshot, season int) []Entry {
	events := snap.Events
	if season != AllSeasons {
		events = make([]model.Event, 0, len(snap.Events))
		for _, e := range snap.Events {
			if e.Season == season {
				events = append(events, e)
			}
		}
	}
	idx := IndexEvents(events)

	byShooter := make(map[string][]model.Result)
	for _, r := range snap.Results {
		if _, ok := idx[r.EventID]; !ok {
			continue
		}
		byShooter[r.ShooterID] = append(byShooter[r.ShooterID], r)
	}

	entries := make([]Entry, 0, len(snap.Shooters))
	for _, s := range snap.Shooters {
		if !s.Active {
			continue
		}
		entries = append(entries, BuildEntry(s, byShooter[s.ID], idx))
	}

	slices.SortStableFunc(entries, compareEntries)
	return entries
}

func compareEntries(a, b Entry) int {
	if a.Qualifies != b.Qualifies {
		if a.Qualifies {
			return -1
		}
		return 1
	}
	return cmp.Compare(b.WeightedAverage, a.WeightedAverage)
}
