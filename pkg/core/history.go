package core

import "time"

// HistoryEntry records one completed search. Entries are created by the
// query coordinator after a successful search with a non-empty query,
// immutable afterwards, and deleted only through an owner-scoped bulk
// clear. The persisted list is capped to the most recent entries per
// owner.
type HistoryEntry struct {
	ID          string            `json:"id"`
	Query       string            `json:"query"`
	Filters     map[string]string `json:"filters,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	ResultCount int               `json:"result_count"`
	OwnerID     string            `json:"owner_id"`
}

// SuggestionType classifies what a suggestion refers to.
type SuggestionType string

const (
	SuggestionQuery   SuggestionType = "query"
	SuggestionTag     SuggestionType = "tag"
	SuggestionUser    SuggestionType = "user"
	SuggestionTeam    SuggestionType = "team"
	SuggestionProject SuggestionType = "project"
)

// Suggestion is a ranked query completion. Suggestions are derived from
// recent history plus a static seed list and are never persisted on
// their own; the cache is regenerated from history on every load.
type Suggestion struct {
	Text       string         `json:"text"`
	Type       SuggestionType `json:"type"`
	Frequency  int            `json:"frequency"`
	LastUsedAt time.Time      `json:"last_used_at,omitzero"`
}
