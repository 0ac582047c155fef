// Package scoring turns a raw hit count into effectiveness values.
package scoring

import (
	"fmt"

	"github.com/okian/clubrank/internal/domain/model"
)

// Event-type weights applied to effectiveness.
const (
	OfficialWeight = 1.0
	InternalWeight = 0.6
)

const percent = 100

// Effectiveness returns the share of targets hit as a percentage.
// A zero target count yields 0 instead of dividing by zero.
func Effectiveness(targetsHit, totalTargets int) float64 {
	if totalTargets == 0 {
		return 0
	}
	return float64(targetsHit) / float64(totalTargets) * percent
}

// Weight returns the multiplier for an event type.
// It panics on an unknown type: callers validate types before scoring.
func Weight(t model.EventType) float64 {
	switch t {
	case model.EventOfficial:
		return OfficialWeight
	case model.EventInternal:
		return InternalWeight
	default:
		panic(fmt.Sprintf("scoring: unknown event type %q", string(t)))
	}
}

// WeightedEffectiveness scales effectiveness by the event-type weight.
func WeightedEffectiveness(effectiveness float64, t model.EventType) float64 {
	return effectiveness * Weight(t)
}

// Recompute returns r with its derived fields computed against e.
// Every create and update of a result goes through here.
func Recompute(r model.Result, e model.Event) model.Result {
	r.Effectiveness = Effectiveness(r.TargetsHit, e.TotalTargets)
	r.WeightedEffectiveness = WeightedEffectiveness(r.Effectiveness, e.Type)
	return r
}
