// Package scoring implements the heuristic relevance model shared by all
// domain sources. Every rule is additive and expressed as a declarative
// weight so the heuristic stays auditable and testable per rule.
//
// Scores are domain-local: a task score and a user score are merged by
// raw numeric comparison without cross-domain normalization. That is a
// deliberate property of the ranking model, not an oversight.
package scoring

import (
	"strings"
	"time"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
)

// TextWeights are the additive weights applied to text matches against a
// normalized (lowercased) query. They are shared by every domain.
type TextWeights struct {
	// TitlePrefix applies when the primary text field starts with the query.
	TitlePrefix float64
	// TitleContains applies when the primary field merely contains the
	// query. Mutually exclusive with TitlePrefix.
	TitleContains float64
	// Description applies when the secondary text field contains the query.
	Description float64
	// Tag applies when at least one tag contains the query. Only the
	// first matching tag counts; no double counting.
	Tag float64
	// Recency applies when the record was updated within RecencyWindow.
	Recency float64
}

// RecencyWindow is how far back an update still earns the recency boost.
const RecencyWindow = 7 * 24 * time.Hour

// DefaultWeights is the tuned weight table the production scorer runs with.
var DefaultWeights = TextWeights{
	TitlePrefix:   100,
	TitleContains: 80,
	Description:   40,
	Tag:           60,
	Recency:       10,
}

// Per-domain metadata boosts, keyed by the metadata values the stores
// actually carry.
var (
	taskPriorityBoost = map[string]float64{
		"urgent": 20,
		"high":   15,
		"medium": 10,
		"low":    5,
	}

	projectStatusBoost = map[string]float64{
		"active":    30,
		"planning":  20,
		"completed": 10,
	}

	userRoleBoost = map[string]float64{
		"super_admin": 15,
		"admin":       12,
		"manager":     10,
		"member":      8,
		"viewer":      5,
	}
)

const (
	activeBoost        = 20
	perMemberBoost     = 2
	progressBoostScale = 0.2
)

// Scorer scores raw records against a normalized query. The zero value
// is not usable; construct with NewScorer.
type Scorer struct {
	weights TextWeights
	now     func() time.Time
}

// NewScorer builds a scorer with the default weight table.
func NewScorer() *Scorer {
	return NewScorerWithWeights(DefaultWeights)
}

// NewScorerWithWeights builds a scorer with a custom weight table.
// Used by tests to isolate individual rules.
func NewScorerWithWeights(w TextWeights) *Scorer {
	return &Scorer{weights: w, now: time.Now}
}

// SetNow overrides the clock used for the recency boost. Test hook.
func (s *Scorer) SetNow(now func() time.Time) { s.now = now }

// Score computes the relevance of a record for queryLower, which must
// already be lowercased and trimmed. The result is always >= 0.
func (s *Scorer) Score(rec core.Record, queryLower string, domain core.DomainType) float64 {
	score := s.textScore(rec, queryLower)
	score += s.domainBoost(rec, domain)
	if !rec.UpdatedAt.IsZero() && s.now().Sub(rec.UpdatedAt) <= RecencyWindow {
		score += s.weights.Recency
	}
	return score
}

func (s *Scorer) textScore(rec core.Record, queryLower string) float64 {
	var score float64

	title := strings.ToLower(rec.Title)
	switch {
	case strings.HasPrefix(title, queryLower):
		score += s.weights.TitlePrefix
	case strings.Contains(title, queryLower):
		score += s.weights.TitleContains
	}

	if rec.Description != "" && strings.Contains(strings.ToLower(rec.Description), queryLower) {
		score += s.weights.Description
	}

	for _, tag := range rec.Tags {
		if strings.Contains(strings.ToLower(tag), queryLower) {
			score += s.weights.Tag
			break
		}
	}

	return score
}

func (s *Scorer) domainBoost(rec core.Record, domain core.DomainType) float64 {
	switch domain {
	case core.DomainTask:
		if priority, ok := rec.MetaString("priority"); ok {
			return taskPriorityBoost[strings.ToLower(priority)]
		}

	case core.DomainTeam:
		var boost float64
		if rec.MetaBool("active") {
			boost += activeBoost
		}
		boost += perMemberBoost * rec.MetaFloat("member_count")
		return boost

	case core.DomainProject:
		var boost float64
		if status, ok := rec.MetaString("status"); ok {
			boost += projectStatusBoost[strings.ToLower(status)]
		}
		boost += rec.MetaFloat("progress") * progressBoostScale
		return boost

	case core.DomainUser:
		var boost float64
		if rec.MetaBool("active") {
			boost += activeBoost
		}
		if role, ok := rec.MetaString("role"); ok {
			boost += userRoleBoost[strings.ToLower(role)]
		}
		return boost
	}

	return 0
}
