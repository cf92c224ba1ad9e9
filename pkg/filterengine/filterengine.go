// Package filterengine validates candidate records against a search
// filter before they are scored. All rules are AND-ed; an absent record
// field fails an active constraint rather than silently passing.
package filterengine

import (
	"strings"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
)

// Passes reports whether rec satisfies every active constraint in filter.
// Domain type selection is handled upstream by the coordinator, so only
// the date range, tag and custom constraints are checked here.
func Passes(rec core.Record, filter core.SearchFilter) bool {
	if filter.DateRange != nil && !filter.DateRange.Contains(rec.CreatedAt) {
		return false
	}
	if len(filter.Tags) > 0 && !matchesAnyTag(rec.Tags, filter.Tags) {
		return false
	}
	for key, want := range filter.Custom {
		v, ok := rec.Metadata[key]
		if !ok || core.RenderMetaValue(v) != want {
			return false
		}
	}
	return true
}

// matchesAnyTag implements the OR-matched tag rule: the record must
// carry at least one tag that case-insensitively contains at least one
// filter tag.
func matchesAnyTag(recordTags, filterTags []string) bool {
	for _, rt := range recordTags {
		lower := strings.ToLower(rt)
		for _, ft := range filterTags {
			if strings.Contains(lower, strings.ToLower(ft)) {
				return true
			}
		}
	}
	return false
}
