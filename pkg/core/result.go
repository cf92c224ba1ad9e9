package core

import (
	"fmt"
	"time"
)

// DomainType identifies the entity category a search result belongs to.
// Only the first four types are backed by searchable sources; the
// remaining types exist so results forwarded from other subsystems
// (notifications, comments, attachments) fit the same projection.
type DomainType string

const (
	DomainTask         DomainType = "task"
	DomainTeam         DomainType = "team"
	DomainProject      DomainType = "project"
	DomainUser         DomainType = "user"
	DomainNotification DomainType = "notification"
	DomainComment      DomainType = "comment"
	DomainFile         DomainType = "file"
	DomainOther        DomainType = "other"
)

// SearchableDomains lists the domains the federated search fans out to,
// in the order they are queried when no type filter is set.
var SearchableDomains = []DomainType{DomainTask, DomainTeam, DomainProject, DomainUser}

// ParseDomainType converts a string into a DomainType, returning
// ErrUnknownDomain for values outside the known set.
func ParseDomainType(s string) (DomainType, error) {
	switch DomainType(s) {
	case DomainTask, DomainTeam, DomainProject, DomainUser,
		DomainNotification, DomainComment, DomainFile, DomainOther:
		return DomainType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDomain, s)
}

// SearchResult is the unified projection of any domain entity returned by
// a search. Results are value types: constructed once per search call and
// never mutated afterwards. Derived displays should copy and replace
// fields rather than modify a shared result.
//
// The (Domain, ID) pair is globally unique within one result set;
// duplicates within the same domain are suppressed by the source adapter
// before results reach the merge step.
type SearchResult struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Subtitle     string         `json:"subtitle,omitempty"`
	Description  string         `json:"description,omitempty"`
	Domain       DomainType     `json:"domain"`
	Relevance    float64        `json:"relevance"`
	CreatedAt    time.Time      `json:"created_at,omitzero"`
	UpdatedAt    time.Time      `json:"updated_at,omitzero"`
	Tags         []string       `json:"tags,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	ImageURL     string         `json:"image_url,omitempty"`
	ActionTarget string         `json:"action_target,omitempty"`
}

// Key returns the de-duplication key for this result.
func (r SearchResult) Key() string {
	return string(r.Domain) + "/" + r.ID
}

// Summary returns a concise one-line description for compact display.
func (r SearchResult) Summary() string {
	if r.Subtitle != "" {
		return fmt.Sprintf("[%s] %s — %s", r.Domain, r.Title, r.Subtitle)
	}
	return fmt.Sprintf("[%s] %s", r.Domain, r.Title)
}
