package search

import (
	"sort"
	"strings"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
)

// priorityRank maps the priority metadata value to an ordinal for the
// priority sort. Unrecognized and missing priorities rank lowest.
var priorityRank = map[string]int{
	"urgent": 4,
	"high":   3,
	"medium": 2,
	"low":    1,
}

// SortResults applies the secondary ordering in place. All comparators
// are stable so equal keys keep their merge order and repeated renders
// of the same query do not jitter.
//
// SortRelevance is a no-op: the merge step already ordered results by
// descending score and that order is final.
func SortResults(results []core.SearchResult, by core.SortOption, ascending bool) {
	if by == core.SortRelevance || by == "" {
		return
	}

	less := comparatorFor(by)
	sort.SliceStable(results, func(i, j int) bool {
		if ascending {
			return less(results[i], results[j])
		}
		return less(results[j], results[i])
	})
}

func comparatorFor(by core.SortOption) func(a, b core.SearchResult) bool {
	switch by {
	case core.SortCreatedDate:
		// Zero timestamps sort as the oldest possible value.
		return func(a, b core.SearchResult) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	case core.SortUpdatedDate:
		return func(a, b core.SearchResult) bool {
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
	case core.SortAlphabetical:
		return func(a, b core.SearchResult) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case core.SortPriority:
		return func(a, b core.SearchResult) bool {
			return resultPriority(a) < resultPriority(b)
		}
	}
	return func(a, b core.SearchResult) bool { return false }
}

func resultPriority(r core.SearchResult) int {
	v, ok := r.Metadata["priority"]
	if !ok {
		return 0
	}
	return priorityRank[strings.ToLower(core.RenderMetaValue(v))]
}
