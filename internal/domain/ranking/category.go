package ranking

// Category is the tier a qualifying shooter is placed in.
type Category string

// Categories, best first.
const (
	Master       Category = "Master"
	Advanced     Category = "Advanced"
	Intermediate Category = "Intermediate"
	Beginner     Category = "Beginner"
	Unclassified Category = "unclassified"
)

// Band is one row of the category table. Both bounds are inclusive.
type Band struct {
	Category Category `json:"category"`
	Min      float64  `json:"min"`
	Max      float64  `json:"max"`
}

// Table order matters: the first matching band wins, so 50 lands in
// Intermediate and scores between bands (79.995) match nothing.
var bands = [...]Band{ //nolint:gochecknoglobals // fixed threshold table
	{Category: Master, Min: 80, Max: 100},
	{Category: Advanced, Min: 65, Max: 79.99},
	{Category: Intermediate, Min: 50, Max: 64.99},
	{Category: Beginner, Min: 0, Max: 50},
}

// Bands returns a copy of the category table in evaluation order.
func Bands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands[:])
	return out
}

// Classify maps a weighted average to its category, or Unclassified when no band matches.
func Classify(score float64) Category {
	for _, b := range bands {
		if score >= b.Min && score <= b.Max {
			return b.Category
		}
	}
	return Unclassified
}
