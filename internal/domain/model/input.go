package model

import (
	"strings"
	"time"
)

// ShooterInput carries the client-editable fields of a new shooter.
type ShooterInput struct {
	Name   string `json:"name" validate:"required,max=120"`
	Email  string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Active *bool  `json:"active,omitempty"`
}

// Normalize trims whitespace from free-text fields.
func (in *ShooterInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
}

// ShooterPatch updates a subset of a shooter's fields; nil fields are left
// untouched and an empty Email clears the stored address.
type ShooterPatch struct {
	Name   *string `json:"name,omitempty" validate:"omitnil,min=1,max=120"`
	Email  *string `json:"email,omitempty" validate:"omitnil,max=254"`
	Active *bool   `json:"active,omitempty"`
}

// Apply returns s with the patch applied.
func (p ShooterPatch) Apply(s Shooter) Shooter {
	if p.Name != nil {
		s.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		s.Email = strings.TrimSpace(*p.Email)
	}
	if p.Active != nil {
		s.Active = *p.Active
	}
	return s
}

// EventInput carries the fields of a new event. Season defaults to the year of Date.
type EventInput struct {
	Name         string    `json:"name" validate:"required,max=120"`
	Date         string    `json:"date" validate:"required,datetime=2006-01-02"`
	Type         EventType `json:"type" validate:"required,oneof=official internal"`
	TotalTargets int       `json:"total_targets" validate:"min=1,max=10000"`
	Season       int       `json:"season,omitempty" validate:"omitempty,min=1900,max=3000"`
}

// Normalize trims the name and fills Season from Date when it is unset.
func (in *EventInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Date = strings.TrimSpace(in.Date)
	if in.Season == 0 {
		in.Season = SeasonOf(in.Date)
	}
}

// EventPatch updates a subset of an event's fields.
type EventPatch struct {
	Name         *string    `json:"name,omitempty" validate:"omitnil,min=1,max=120"`
	Date         *string    `json:"date,omitempty" validate:"omitnil,datetime=2006-01-02"`
	Type         *EventType `json:"type,omitempty" validate:"omitnil,oneof=official internal"`
	TotalTargets *int       `json:"total_targets,omitempty" validate:"omitnil,min=1,max=10000"`
	Season       *int       `json:"season,omitempty" validate:"omitnil,min=1900,max=3000"`
}

// Apply returns e with the patch applied.
func (p EventPatch) Apply(e Event) Event {
	if p.Name != nil {
		e.Name = strings.TrimSpace(*p.Name)
	}
	if p.Date != nil {
		e.Date = strings.TrimSpace(*p.Date)
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.TotalTargets != nil {
		e.TotalTargets = *p.TotalTargets
	}
	if p.Season != nil {
		e.Season = *p.Season
	}
	return e
}

// AffectsScoring reports whether the patch changes a field the derived result values depend on.
func (p EventPatch) AffectsScoring(current Event) bool {
	return (p.Type != nil && *p.Type != current.Type) ||
		(p.TotalTargets != nil && *p.TotalTargets != current.TotalTargets)
}

// ResultInput carries the fields of a new result. Derived values are computed server-side.
type ResultInput struct {
	EventID    string `json:"event_id" validate:"required"`
	ShooterID  string `json:"shooter_id" validate:"required"`
	TargetsHit int    `json:"targets_hit" validate:"min=0"`
}

// ResultPatch updates a subset of a result's fields.
type ResultPatch struct {
	EventID    *string `json:"event_id,omitempty" validate:"omitnil,min=1"`
	ShooterID  *string `json:"shooter_id,omitempty" validate:"omitnil,min=1"`
	TargetsHit *int    `json:"targets_hit,omitempty" validate:"omitnil,min=0"`
}

// Apply returns r with the patch applied. Derived fields are left stale and
// must be recomputed by the caller.
func (p ResultPatch) Apply(r Result) Result {
	if p.EventID != nil {
		r.EventID = *p.EventID
	}
	if p.ShooterID != nil {
		r.ShooterID = *p.ShooterID
	}
	if p.TargetsHit != nil {
		r.TargetsHit = *p.TargetsHit
	}
	return r
}

// SeasonOf returns the year of a DateLayout date, or 0 when it does not parse.
func SeasonOf(date string) int {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0
	}
	return t.Year()
}
