package articles

import "sort"

// trendingCount is how many of the most recent articles get flagged.
const trendingCount = 3

// MarkTrending flags the 3 most recently created articles in the given
// collection as trending and returns the collection sorted newest first.
// Flags on the remaining articles are left as they were, never cleared.
// This is deliberately a recency heuristic, not trend detection.
func MarkTrending(arts []Article) []Article {
	sorted := make([]Article, len(arts))
	copy(sorted, arts)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	for i := range sorted {
		if i < trendingCount {
			sorted[i].Trending = true
		}
	}

	return sorted
}
