// Package projects adapts the project collection to the federated search.
package projects

import (
	"context"
	"fmt"
	"strings"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
	"github.com/maniraj0007/task-management-app-sub004/pkg/filterengine"
	"github.com/maniraj0007/task-management-app-sub004/pkg/scoring"
)

func init() {
	core.RegisterSourcePrototype(core.DomainProject, &Source{})
}

type Source struct {
	store  core.RecordQuerier
	scorer *scoring.Scorer
}

func (s *Source) Domain() core.DomainType { return core.DomainProject }
func (s *Source) Name() string            { return "projects" }
func (s *Source) Close() error            { return nil }

func (s *Source) Factory(store core.RecordQuerier) (core.DomainSource, error) {
	if store == nil {
		return nil, fmt.Errorf("projects source requires a record store")
	}
	return &Source{store: store, scorer: scoring.NewScorer()}, nil
}

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
			return nil, fmt.Errorf("projects %s scan: %w", field, err)
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
		results = append(results, s.wrap(rec, s.scorer.Score(rec, query, core.DomainProject)))
	}
	return results, nil
}

func (s *Source) wrap(rec core.Record, score float64) core.SearchResult {
	subtitle, _ := rec.MetaString("status")
	if progress := rec.MetaFloat("progress"); progress > 0 {
		if subtitle != "" {
			subtitle += " · "
		}
		subtitle += fmt.Sprintf("%d%% complete", int(progress))
	}
	imageURL, _ := rec.MetaString("icon_url")

	return core.SearchResult{
		ID:           rec.ID,
		Title:        rec.Title,
		Subtitle:     subtitle,
		Description:  rec.Description,
		Domain:       core.DomainProject,
		Relevance:    score,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
		Tags:         rec.Tags,
		Metadata:     rec.Metadata,
		ImageURL:     imageURL,
		ActionTarget: "project/" + rec.ID,
	}
}
