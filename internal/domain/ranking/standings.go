package ranking

// Row is an Entry as displayed: qualifiers carry a 1-based rank, and the
// first qualifier of each category is flagged as its leader.
type Row struct {
	Rank   int  `json:"rank,omitempty"`
	Leader bool `json:"leader"`
	Entry
}

// Standings is a ranking ready for display.
type Standings struct {
	Season    int                 `json:"season"` // AllSeasons for a cross-season ranking
	Qualified int                 `json:"qualified"`
	Leaders   map[Category]string `json:"leaders"` // category -> shooter id
	Rows      []Row               `json:"rows"`
}

// NewStandings numbers ordered entries as produced by Generate.
func NewStandings(season int, entries []Entry) Standings {
	st := Standings{
		Season:  season,
		Leaders: make(map[Category]string),
		Rows:    make([]Row, len(entries)),
	}
	for i, e := range entries {
		row := Row{Entry: e}
		if e.Qualifies {
			st.Qualified++
			row.Rank = i + 1
			if _, seen := st.Leaders[e.Category]; !seen {
				st.Leaders[e.Category] = e.Shooter.ID
				row.Leader = true
			}
		}
		st.Rows[i] = row
	}
	return st
}
