// Package tasks adapts the task collection to the federated search.
//
// Tasks are the richest domain: candidates are gathered in three passes
// (title prefix scan, description prefix scan, tag containment lookup),
// each pass skipping ids already collected so a record matching several
// ways still yields exactly one result.
package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
	"github.com/maniraj0007/task-management-app-sub004/pkg/filterengine"
	"github.com/maniraj0007/task-management-app-sub004/pkg/scoring"
)

func init() {
	core.RegisterSourcePrototype(core.DomainTask, &Source{})
}

type Source struct {
	store  core.RecordQuerier
	scorer *scoring.Scorer
}

func (s *Source) Domain() core.DomainType { return core.DomainTask }
func (s *Source) Name() string            { return "tasks" }
func (s *Source) Close() error            { return nil }

func (s *Source) Factory(store core.RecordQuerier) (core.DomainSource, error) {
	if store == nil {
		return nil, fmt.Errorf("tasks source requires a record store")
	}
	return &Source{store: store, scorer: scoring.NewScorer()}, nil
}

// Search collects up to limit filter-passing candidates and wraps them
// into scored results. Filter-rejected candidates are dropped without
// counting against limit, so a later pass can still fill the remainder.
func (s *Source) Search(ctx context.Context, query string, filter core.SearchFilter, limit int) ([]core.SearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var kept []core.Record

	keep := func(recs []core.Record) {
		for _, rec := range recs {
			if len(kept) >= limit {
				return
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

	recs, err := s.store.ScanPrefix(ctx, "title", query, limit)
	if err != nil {
		return nil, fmt.Errorf("tasks title scan: %w", err)
	}
	keep(recs)

	if len(kept) < limit {
		recs, err := s.store.ScanPrefix(ctx, "description", query, limit)
		if err != nil {
			return nil, fmt.Errorf("tasks description scan: %w", err)
		}
		keep(recs)
	}

	if len(kept) < limit {
		recs, err := s.store.ScanTag(ctx, query, limit)
		if err != nil {
			return nil, fmt.Errorf("tasks tag scan: %w", err)
		}
		keep(recs)
	}

	results := make([]core.SearchResult, 0, len(kept))
	for _, rec := range kept {
		results = append(results, s.wrap(rec, s.scorer.Score(rec, query, core.DomainTask)))
	}
	return results, nil
}

func (s *Source) wrap(rec core.Record, score float64) core.SearchResult {
	subtitle, _ := rec.MetaString("status")
	if priority, ok := rec.MetaString("priority"); ok {
		if subtitle != "" {
			subtitle += " · "
		}
		subtitle += priority + " priority"
	}
	imageURL, _ := rec.MetaString("icon_url")

	return core.SearchResult{
		ID:           rec.ID,
		Title:        rec.Title,
		Subtitle:     subtitle,
		Description:  rec.Description,
		Domain:       core.DomainTask,
		Relevance:    score,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
		Tags:         rec.Tags,
		Metadata:     rec.Metadata,
		ImageURL:     imageURL,
		ActionTarget: "task/" + rec.ID,
	}
}
