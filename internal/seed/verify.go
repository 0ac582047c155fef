package seed

import (
	"errors"
	"fmt"

	"github.com/okian/clubrank/internal/domain/ranking"
)

// ErrInvariant is wrapped by every ranking check failure.
var ErrInvariant = errors.New("ranking invariant violated")

// Verify checks the ordering rules of a ranking: qualifiers come first,
// weighted averages never increase within each group, ranks run 1..n over
// the qualifiers, categories match the score and each category leader is
// its first qualifier.
func Verify(st ranking.Standings) error {
	seenNonQualifier := false
	rank := 0
	leaders := make(map[ranking.Category]string)
	for i, row := range st.Rows {
		if !row.Qualifies {
			seenNonQualifier = true
			if row.Rank != 0 {
				return fmt.Errorf("%w: row %d is ranked without qualifying", ErrInvariant, i)
			}
			if row.Category != ranking.Unclassified {
				return fmt.Errorf("%w: row %d is classified without qualifying", ErrInvariant, i)
			}
		} else {
			if seenNonQualifier {
				return fmt.Errorf("%w: qualifier at row %d follows a non-qualifier", ErrInvariant, i)
			}
			rank++
			if row.Rank != rank {
				return fmt.Errorf("%w: row %d has rank %d, want %d", ErrInvariant, i, row.Rank, rank)
			}
			if want := ranking.Classify(row.WeightedAverage); row.Category != want {
				return fmt.Errorf("%w: row %d is %s, score says %s", ErrInvariant, i, row.Category, want)
			}
			if _, ok := leaders[row.Category]; !ok {
				leaders[row.Category] = row.Shooter.ID
			}
		}
		if i > 0 {
			prev := st.Rows[i-1]
			if prev.Qualifies == row.Qualifies && row.WeightedAverage > prev.WeightedAverage {
				return fmt.Errorf("%w: row %d scores above row %d", ErrInvariant, i, i-1)
			}
		}
	}
	if rank != st.Qualified {
		return fmt.Errorf("%w: %d ranked rows but %d reported qualified", ErrInvariant, rank, st.Qualified)
	}
	for cat, id := range leaders {
		if st.Leaders[cat] != id {
			return fmt.Errorf("%w: %s leader is %q, want %q", ErrInvariant, cat, st.Leaders[cat], id)
		}
	}
	return nil
}
