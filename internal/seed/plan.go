package seed

import (
	"fmt"

	"github.com/okian/clubrank/internal/domain/model"
)

var firstNames = []string{
	"Ana", "Bruno", "Carla", "Diego", "Elena", "Felipe", "Gloria", "Hugo",
	"Irene", "Jorge", "Karina", "Luis", "Marta", "Nicolas", "Olga", "Pablo",
}

// eventPlan is one demo competition.
type eventPlan struct {
	Name    string
	Month   int
	Type    model.EventType
	Targets int
}

var calendar = []eventPlan{
	{"Opening Cup", 2, model.EventOfficial, 25},
	{"Club Night I", 3, model.EventInternal, 20},
	{"Spring Grand Prix", 4, model.EventOfficial, 50},
	{"Club Night II", 5, model.EventInternal, 20},
	{"Regional Open", 6, model.EventOfficial, 75},
	{"Club Night III", 8, model.EventInternal, 25},
	{"Season Final", 10, model.EventOfficial, 100},
}

// Plan is the deterministic demo club for one season.
type Plan struct {
	Shooters []model.ShooterInput
	Events   []model.EventInput
	// Hits[s][e] is shooter s's hit count at event e; -1 means absent.
	Hits [][]int
}

// NewPlan builds the demo club. Every third shooter skips most official
// events so the ranking always has non-qualifiers.
func NewPlan(season, shooters int) Plan {
	p := Plan{
		Shooters: make([]model.ShooterInput, shooters),
		Events:   make([]model.EventInput, len(calendar)),
		Hits:     make([][]int, shooters),
	}
	for i := range p.Shooters {
		name := firstNames[i%len(firstNames)]
		if i >= len(firstNames) {
			name = fmt.Sprintf("%s %d", name, i/len(firstNames)+1)
		}
		p.Shooters[i] = model.ShooterInput{Name: name}
	}
	for j, ev := range calendar {
		p.Events[j] = model.EventInput{
			Name:         ev.Name,
			Date:         fmt.Sprintf("%04d-%02d-15", season, ev.Month),
			Type:         ev.Type,
			TotalTargets: ev.Targets,
			Season:       season,
		}
	}
	for i := range p.Hits {
		p.Hits[i] = make([]int, len(calendar))
		for j, ev := range calendar {
			if i%3 == 2 && ev.Type == model.EventOfficial && j > 0 {
				p.Hits[i][j] = -1
				continue
			}
			// Skill falls with the shooter index, with some event-to-event noise.
			pct := 95 - (i*37)%55 - (i*7+j*11)%9
			p.Hits[i][j] = ev.Targets * pct / 100
		}
	}
	return p
}

// Results counts the planned results.
func (p Plan) Results() int {
	n := 0
	for _, row := range p.Hits {
		for _, h := range row {
			if h >= 0 {
				n++
			}
		}
	}
	return n
}
