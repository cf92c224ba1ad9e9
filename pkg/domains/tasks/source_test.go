package tasks

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
)

// fakeStore implements core.RecordQuerier in memory, mimicking the
// store's ordered prefix scans and exact tag containment.
type fakeStore struct {
	recs    []core.Record
	scanErr error
}

func (f *fakeStore) ScanPrefix(ctx context.Context, field, prefix string, limit int) ([]core.Record, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	var out []core.Record
	for _, rec := range f.recs {
		value := rec.Title
		if field == "description" {
			value = rec.Description
		}
		if strings.HasPrefix(strings.ToLower(value), strings.ToLower(prefix)) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Title, out[j].Title
		if field == "description" {
			a, b = out[i].Description, out[j].Description
		}
		return strings.ToLower(a) < strings.ToLower(b)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) ScanTag(ctx context.Context, tag string, limit int) ([]core.Record, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	var out []core.Record
	for _, rec := range f.recs {
		for _, t := range rec.Tags {
			if strings.EqualFold(t, tag) {
				out = append(out, rec)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (core.Record, bool, error) {
	for _, rec := range f.recs {
		if rec.ID == id {
			return rec, true, nil
		}
	}
	return core.Record{}, false, nil
}

func newSource(t *testing.T, store *fakeStore) core.DomainSource {
	t.Helper()
	src, err := (&Source{}).Factory(store)
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	return src
}

func TestSearchMatchesAcrossAllThreePasses(t *testing.T) {
	store := &fakeStore{recs: []core.Record{
		{ID: "t1", Title: "urgent deploy"},
		{ID: "t2", Title: "weekly report", Description: "urgent numbers for finance"},
		{ID: "t3", Title: "cleanup", Tags: []string{"urgent"}},
		{ID: "t4", Title: "unrelated"},
	}}
	src := newSource(t, store)

	results, err := src.Search(context.Background(), "urgent", core.SearchFilter{}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d: %+v", len(results), results)
	}

	ids := map[string]bool{}
	for _, r := range results {
		ids[r.ID] = true
		if r.Domain != core.DomainTask {
			t.Errorf("result %s has domain %s", r.ID, r.Domain)
		}
	}
	for _, want := range []string{"t1", "t2", "t3"} {
		if !ids[want] {
			t.Errorf("missing result %s", want)
		}
	}
}

func TestSearchDeduplicatesAcrossPasses(t *testing.T) {
	// One record matching title, description and tags must appear once.
	store := &fakeStore{recs: []core.Record{
		{ID: "t1", Title: "urgent deploy", Description: "urgent fix", Tags: []string{"urgent"}},
	}}
	src := newSource(t, store)

	results, err := src.Search(context.Background(), "urgent", core.SearchFilter{}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 de-duplicated result, got %d", len(results))
	}
}

func TestSearchFilterRejectionsDoNotCountAgainstLimit(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dr, err := core.NewDateRange(t0, t0.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("NewDateRange: %v", err)
	}

	store := &fakeStore{recs: []core.Record{
		{ID: "old1", Title: "task a", CreatedAt: t0.Add(-time.Hour)},
		{ID: "old2", Title: "task b", CreatedAt: t0.Add(-time.Hour)},
		{ID: "new1", Title: "task c", CreatedAt: t0.AddDate(0, 0, 3)},
		{ID: "new2", Title: "task d", CreatedAt: t0.AddDate(0, 0, 4)},
	}}
	src := newSource(t, store)

	results, err := src.Search(context.Background(), "task", core.SearchFilter{DateRange: &dr}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected the 2 in-range tasks, got %d", len(results))
	}
	for _, r := range results {
		if r.ID == "old1" || r.ID == "old2" {
			t.Errorf("out-of-range task %s returned", r.ID)
		}
	}
}

func TestSearchRespectsLimit(t *testing.T) {
	var recs []core.Record
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		recs = append(recs, core.Record{ID: id, Title: "task " + id})
	}
	src := newSource(t, &fakeStore{recs: recs})

	results, err := src.Search(context.Background(), "task", core.SearchFilter{}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestSearchEmptyQueryReturnsNothing(t *testing.T) {
	src := newSource(t, &fakeStore{recs: []core.Record{{ID: "t1", Title: "anything"}}})

	results, err := src.Search(context.Background(), "   ", core.SearchFilter{}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results != nil {
		t.Errorf("expected no results for whitespace query, got %+v", results)
	}
}

func TestSearchPropagatesStoreErrors(t *testing.T) {
	src := newSource(t, &fakeStore{scanErr: errors.New("store offline")})

	_, err := src.Search(context.Background(), "urgent", core.SearchFilter{}, 10)
	if err == nil {
		t.Fatal("expected store error to propagate to the coordinator")
	}
}

func TestSearchPriorityBoostOrdersEqualTextMatches(t *testing.T) {
	store := &fakeStore{recs: []core.Record{
		{ID: "low", Title: "urgent follow-up", Metadata: map[string]any{"priority": "low"}},
		{ID: "hot", Title: "urgent incident", Metadata: map[string]any{"priority": "urgent"}},
	}}
	src := newSource(t, store)

	results, err := src.Search(context.Background(), "urgent", core.SearchFilter{}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	var hot, low core.SearchResult
	for _, r := range results {
		switch r.ID {
		case "hot":
			hot = r
		case "low":
			low = r
		}
	}
	if hot.Relevance <= low.Relevance {
		t.Errorf("urgent-priority task must outscore low-priority: %v <= %v", hot.Relevance, low.Relevance)
	}
}

func TestFactoryRejectsNilStore(t *testing.T) {
	if _, err := (&Source{}).Factory(nil); err == nil {
		t.Error("expected error for nil store")
	}
}
