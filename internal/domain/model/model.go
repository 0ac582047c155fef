// Package model contains the club's domain records passed between layers.
package model

import "time"

// EventType distinguishes official competitions from internal club shoots.
type EventType string

// Event types.
const (
	EventOfficial EventType = "official"
	EventInternal EventType = "internal"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	return t == EventOfficial || t == EventInternal
}

// DateLayout is the calendar date format used for Event.Date.
const DateLayout = "2006-01-02"

// Shooter is a club member who takes part in events.
// Inactive shooters keep their history but are left out of rankings.
type Shooter struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is a single shoot, either official or internal, within a season.
type Event struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Date         string    `json:"date"` // DateLayout
	Type         EventType `json:"type"`
	TotalTargets int       `json:"total_targets"`
	Season       int       `json:"season"`
	CreatedAt    time.Time `json:"created_at"`
}

// Result is one shooter's score at one event.
// Effectiveness and WeightedEffectiveness are derived from TargetsHit and the
// owning event and are never taken from clients.
type Result struct {
	ID                    string    `json:"id"`
	EventID               string    `json:"event_id"`
	ShooterID             string    `json:"shooter_id"`
	TargetsHit            int       `json:"targets_hit"`
	Effectiveness         float64   `json:"effectiveness"`
	WeightedEffectiveness float64   `json:"weighted_effectiveness"`
	CreatedAt             time.Time `json:"created_at"`
}

// PairKey identifies the (event, shooter) pair a result belongs to.
func (r Result) PairKey() string {
	return PairKey(r.EventID, r.ShooterID)
}

// PairKey builds the uniqueness key for an (event, shooter) pair.
func PairKey(eventID, shooterID string) string {
	return eventID + "/" + shooterID
}
