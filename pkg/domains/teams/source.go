// Package teams adapts the team collection to the federated search.
package teams

import (
	"context"
	"fmt"
	"strings"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
	"github.com/maniraj0007/task-management-app-sub004/pkg/filterengine"
	"github.com/maniraj0007/task-management-app-sub004/pkg/scoring"
)

func init() {
	core.RegisterSourcePrototype(core.DomainTeam, &Source{})
}

type Source struct {
	store  core.RecordQuerier
	scorer *scoring.Scorer
}

func (s *Source) Domain() core.DomainType { return core.DomainTeam }
func (s *Source) Name() string            { return "teams" }
func (s *Source) Close() error            { return nil }

func (s *Source) Factory(store core.RecordQuerier) (core.DomainSource, error) {
	if store == nil {
		return nil, fmt.Errorf("teams source requires a record store")
	}
	return &Source{store: store, scorer: scoring.NewScorer()}, nil
}

// Search gathers candidates with a name prefix pass and a description
// prefix pass, de-duplicated by id across passes.
func (s *Source) Search(ctx context.Context, query string, filter core.SearchFilter, limit int) ([]core.SearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var kept []core.Record

	for _, field := range []string{"title", "description"} {
		if len(kept) >= limit {
			break
		}
		recs, err := s.store.ScanPrefix(ctx, field, query, limit)
		if err != nil {
			return nil, fmt.Errorf("teams %s scan: %w", field, err)
		}
		for _, rec := range recs {
			if len(kept) >= limit {
				break
			}
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true
			if !filterengine.Passes(rec, filter) {
				continue
			}
			kept = append(kept, rec)
		}
	}

	results := make([]core.SearchResult, 0, len(kept))
	for _, rec := range kept {
		results = append(results, s.wrap(rec, s.scorer.Score(rec, query, core.DomainTeam)))
	}
	return results, nil
}

func (s *Source) wrap(rec core.Record, score float64) core.SearchResult {
	subtitle := fmt.Sprintf("%d members", int(rec.MetaFloat("member_count")))
	if !rec.MetaBool("active") {
		subtitle += " · inactive"
	}
	imageURL, _ := rec.MetaString("avatar_url")

	return core.SearchResult{
		ID:           rec.ID,
		Title:        rec.Title,
		Subtitle:     subtitle,
		Description:  rec.Description,
		Domain:       core.DomainTeam,
		Relevance:    score,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
		Tags:         rec.Tags,
		Metadata:     rec.Metadata,
		ImageURL:     imageURL,
		ActionTarget: "team/" + rec.ID,
	}
}
