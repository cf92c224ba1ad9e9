package search

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
)

type fakeSource struct {
	domain   core.DomainType
	results  []core.SearchResult
	err      error
	gotLimit int
	calls    int
}

func (f *fakeSource) Domain() core.DomainType { return f.domain }
func (f *fakeSource) Name() string            { return string(f.domain) + "-fake" }
func (f *fakeSource) Close() error            { return nil }
func (f *fakeSource) Factory(store core.RecordQuerier) (core.DomainSource, error) {
	return f, nil
}

func (f *fakeSource) Search(ctx context.Context, query string, filter core.SearchFilter, limit int) ([]core.SearchResult, error) {
	f.calls++
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeHistory struct {
	queries []string
	counts  []int
	err     error
}

func (f *fakeHistory) RecordSearch(ctx context.Context, query string, filter core.SearchFilter, resultCount int, ownerID string) error {
	if f.err != nil {
		return f.err
	}
	f.queries = append(f.queries, query)
	f.counts = append(f.counts, resultCount)
	return nil
}

func result(domain core.DomainType, id string, relevance float64) core.SearchResult {
	return core.SearchResult{ID: id, Title: id, Domain: domain, Relevance: relevance}
}

// testRegistry wires fake sources for all four searchable domains.
func testRegistry(t *testing.T, sources map[core.DomainType]*fakeSource) *core.Registry {
	t.Helper()
	for _, domain := range core.SearchableDomains {
		src, ok := sources[domain]
		if !ok {
			src = &fakeSource{domain: domain}
			sources[domain] = src
		}
		core.RegisterSourcePrototype(domain, src)
	}
	registry := core.GetGlobalRegistry()
	for _, domain := range core.SearchableDomains {
		if err := registry.CreateSource(domain, nil); err != nil {
			t.Fatalf("CreateSource(%s): %v", domain, err)
		}
	}
	return registry
}

func TestSearchEmptyQuery(t *testing.T) {
	history := &fakeHistory{}
	svc := NewService(testRegistry(t, map[core.DomainType]*fakeSource{}), history)

	results, err := svc.Search(context.Background(), Params{Query: "   ", Limit: 20})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results != nil {
		t.Errorf("expected no results, got %+v", results)
	}
	if len(history.queries) != 0 {
		t.Error("empty query must not write history")
	}
}

func TestSearchMergesDescendingByRelevance(t *testing.T) {
	sources := map[core.DomainType]*fakeSource{
		core.DomainTask: {domain: core.DomainTask, results: []core.SearchResult{
			result(core.DomainTask, "t1", 120),
			result(core.DomainTask, "t2", 80),
		}},
		core.DomainUser: {domain: core.DomainUser, results: []core.SearchResult{
			result(core.DomainUser, "u1", 100),
		}},
	}
	svc := NewService(testRegistry(t, sources), nil)

	results, err := svc.Search(context.Background(), Params{Query: "urgent", Limit: 20})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Relevance > results[i-1].Relevance {
			t.Errorf("relevance not monotonically non-increasing at %d: %v > %v",
				i, results[i].Relevance, results[i-1].Relevance)
		}
	}
	if results[0].ID != "t1" || results[1].ID != "u1" || results[2].ID != "t2" {
		t.Errorf("unexpected order: %v %v %v", results[0].ID, results[1].ID, results[2].ID)
	}
}

func TestSearchSubLimitIsQuarterOfLimit(t *testing.T) {
	sources := map[core.DomainType]*fakeSource{}
	svc := NewService(testRegistry(t, sources), nil)

	// Only one domain selected, yet the sub-limit stays limit/4.
	_, err := svc.Search(context.Background(), Params{
		Query:  "urgent",
		Filter: core.SearchFilter{Types: []core.DomainType{core.DomainTask}},
		Limit:  20,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := sources[core.DomainTask].gotLimit; got != 5 {
		t.Errorf("task sub-limit = %d, want 5", got)
	}
	if sources[core.DomainUser].calls != 0 {
		t.Error("unselected domain must not be queried")
	}
}

func TestSearchDomainFailureIsIsolated(t *testing.T) {
	sources := map[core.DomainType]*fakeSource{
		core.DomainTask: {domain: core.DomainTask, err: errors.New("store offline")},
		core.DomainTeam: {domain: core.DomainTeam, results: []core.SearchResult{
			result(core.DomainTeam, "g1", 90),
		}},
	}
	svc := NewService(testRegistry(t, sources), nil)

	results, err := svc.Search(context.Background(), Params{Query: "urgent", Limit: 20})
	if err != nil {
		t.Fatalf("one failing domain must not fail the search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "g1" {
		t.Errorf("expected surviving domain's results, got %+v", results)
	}
}

func TestSearchTruncatesToLimit(t *testing.T) {
	var taskResults []core.SearchResult
	for i := 0; i < 10; i++ {
		taskResults = append(taskResults, result(core.DomainTask, fmt.Sprintf("t%d", i), float64(100-i)))
	}
	sources := map[core.DomainType]*fakeSource{
		core.DomainTask: {domain: core.DomainTask, results: taskResults},
	}
	svc := NewService(testRegistry(t, sources), nil)

	results, err := svc.Search(context.Background(), Params{Query: "urgent", Limit: 4})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 4 {
		t.Errorf("expected truncation to 4, got %d", len(results))
	}
}

func TestSearchRecordsHistoryWithFinalCount(t *testing.T) {
	sources := map[core.DomainType]*fakeSource{
		core.DomainTask: {domain: core.DomainTask, results: []core.SearchResult{
			result(core.DomainTask, "t1", 100),
		}},
	}
	history := &fakeHistory{}
	svc := NewService(testRegistry(t, sources), history)

	if _, err := svc.Search(context.Background(), Params{Query: "urgent", Limit: 20, OwnerID: "o1"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(history.queries) != 1 || history.queries[0] != "urgent" {
		t.Fatalf("expected one history write, got %v", history.queries)
	}
	if history.counts[0] != 1 {
		t.Errorf("history result count = %d, want 1", history.counts[0])
	}

	// Zero results still record.
	if _, err := svc.Search(context.Background(), Params{Query: "nomatch", Limit: 20, OwnerID: "o1"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(history.queries) != 2 {
		t.Error("zero-result search must still write history")
	}
}

func TestSearchHistoryFailureDoesNotFailSearch(t *testing.T) {
	sources := map[core.DomainType]*fakeSource{
		core.DomainTask: {domain: core.DomainTask, results: []core.SearchResult{
			result(core.DomainTask, "t1", 100),
		}},
	}
	svc := NewService(testRegistry(t, sources), &fakeHistory{err: errors.New("disk full")})

	results, err := svc.Search(context.Background(), Params{Query: "urgent", Limit: 20})
	if err != nil {
		t.Fatalf("history failure must not surface: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected results despite history failure, got %d", len(results))
	}
}

func TestSearchIsIdempotent(t *testing.T) {
	sources := map[core.DomainType]*fakeSource{
		core.DomainTask: {domain: core.DomainTask, results: []core.SearchResult{
			result(core.DomainTask, "t1", 100),
			result(core.DomainTask, "t2", 100),
			result(core.DomainTask, "t3", 90),
		}},
	}
	svc := NewService(testRegistry(t, sources), nil)
	params := Params{Query: "urgent", Limit: 20}

	first, err := svc.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	second, err := svc.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated search differs:\n%+v\n%+v", first, second)
	}
}

func TestSearchSecondarySort(t *testing.T) {
	sources := map[core.DomainType]*fakeSource{
		core.DomainTask: {domain: core.DomainTask, results: []core.SearchResult{
			{ID: "t1", Title: "zebra", Domain: core.DomainTask, Relevance: 100},
			{ID: "t2", Title: "apple", Domain: core.DomainTask, Relevance: 50},
		}},
	}
	svc := NewService(testRegistry(t, sources), nil)

	results, err := svc.Search(context.Background(), Params{
		Query:  "urgent",
		Filter: core.SearchFilter{SortBy: core.SortAlphabetical, SortAscending: true},
		Limit:  20,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results[0].Title != "apple" || results[1].Title != "zebra" {
		t.Errorf("alphabetical sort not applied: %v, %v", results[0].Title, results[1].Title)
	}
}

func TestParseParams(t *testing.T) {
	params, err := ParseParams(map[string][]string{
		"q":           {"urgent"},
		"domain":      {"task", "project"},
		"tag":         {"backend"},
		"sort":        {"priority"},
		"order":       {"asc"},
		"limit":       {"15"},
		"owner":       {"o1"},
		"meta.status": {"open"},
		"start_date":  {"2024-01-01"},
		"end_date":    {"2024-01-31"},
	})
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}

	if params.Query != "urgent" || params.Limit != 15 || params.OwnerID != "o1" {
		t.Errorf("basic params wrong: %+v", params)
	}
	if len(params.Filter.Types) != 2 {
		t.Errorf("domains wrong: %v", params.Filter.Types)
	}
	if params.Filter.SortBy != core.SortPriority || !params.Filter.SortAscending {
		t.Errorf("sort wrong: %v asc=%v", params.Filter.SortBy, params.Filter.SortAscending)
	}
	if params.Filter.Custom["status"] != "open" {
		t.Errorf("custom filter wrong: %v", params.Filter.Custom)
	}
	if params.Filter.DateRange == nil {
		t.Fatal("date range missing")
	}
	// end_date is inclusive at day granularity, so the interval closes
	// at the following midnight.
	if params.Filter.DateRange.End.Day() != 1 {
		t.Errorf("end date not advanced to next midnight: %v", params.Filter.DateRange.End)
	}

	if _, err := ParseParams(map[string][]string{"domain": {"unicorn"}}); err == nil {
		t.Error("expected error for unknown domain")
	}
	if _, err := ParseParams(map[string][]string{"start_date": {"nope"}}); err == nil {
		t.Error("expected error for malformed date")
	}
}
