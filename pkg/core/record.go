package core

import "time"

// Record is a raw row from a domain collection, before scoring and
// projection into a SearchResult. The filter engine and the relevance
// scorer both operate on records so that rejected candidates never pay
// the projection cost.
//
// Title is the primary text field every domain indexes for prefix scans.
// Description is the secondary text field (bio for users, description
// for the rest). Metadata carries the domain-specific columns: priority
// and status for tasks, member_count and active for teams, status and
// progress for projects, role and active for users.
type Record struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	OwnerID     string         `json:"owner_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitzero"`
	UpdatedAt   time.Time      `json:"updated_at,omitzero"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// MetaString returns the metadata value for key rendered as a string,
// with ok reporting whether the key exists at all.
func (r Record) MetaString(key string) (string, bool) {
	v, ok := r.Metadata[key]
	if !ok {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	default:
		return renderMetaValue(v), true
	}
}

// MetaBool returns the metadata value for key interpreted as a boolean.
// Missing keys and non-boolean values are false.
func (r Record) MetaBool(key string) bool {
	switch v := r.Metadata[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// MetaFloat returns the metadata value for key as a float64. JSON
// decoding produces float64 for all numbers, but records built in code
// may carry int values, so both are accepted.
func (r Record) MetaFloat(key string) float64 {
	switch v := r.Metadata[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}
