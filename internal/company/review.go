package company

import "sort"

// VisibleReviews merges a company's review collections for display. Public
// reviews are always included; team reviews only when the caller established
// that the actor is an authenticated member of the owning team. The result is
// ordered by date descending, with insertion order (Seq) breaking ties.
func VisibleReviews(reviews []Review, includeTeam bool) []Review {
	visible := make([]Review, 0, len(reviews))
	for _, rv := range reviews {
		if rv.IsTeamReview && !includeTeam {
			continue
		}
		visible = append(visible, rv)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		if !visible[i].Date.Equal(visible[j].Date) {
			return visible[i].Date.After(visible[j].Date)
		}
		return visible[i].Seq < visible[j].Seq
	})

	return visible
}

// AverageRating returns the arithmetic mean of the ratings, unrounded.
// Rounding for presentation is the caller's concern. Empty input yields 0.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}

	sum := 0
	for _, rv := range reviews {
		sum += rv.Rating
	}

	return float64(sum) / float64(len(reviews))
}
