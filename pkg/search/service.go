// Package search implements the query coordinator of the federated
// search: it fans a query out to the selected domain sources in
// parallel, merges and ranks the candidates, applies the secondary
// sort, truncates, and records the completed search in history.
package search

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
	"github.com/maniraj0007/task-management-app-sub004/pkg/log"
)

// DefaultLimit is used when a caller does not specify a result cap.
const DefaultLimit = 20

// domainShare is the divisor for the per-domain sub-limit. Each selected
// domain is allotted limit/domainShare results regardless of how many
// domains the filter actually selects.
const domainShare = 4

// Params bundles everything one search call needs.
type Params struct {
	Query   string
	Filter  core.SearchFilter
	Limit   int
	OwnerID string
}

// HistoryRecorder receives completed searches. The suggestion & history
// store implements it; the coordinator only needs this slice of it.
type HistoryRecorder interface {
	RecordSearch(ctx context.Context, query string, filter core.SearchFilter, resultCount int, ownerID string) error
}

// Service coordinates the federated search across all active domain
// sources. It owns no mutable state of its own: every call threads its
// request and response through the signature, so concurrent searches
// need no locking.
type Service struct {
	registry *core.Registry
	history  HistoryRecorder
	logger   *log.Logger
}

// NewService builds a coordinator over the given source registry.
// history may be nil, in which case completed searches are not recorded.
func NewService(registry *core.Registry, history HistoryRecorder) *Service {
	return &Service{
		registry: registry,
		history:  history,
		logger:   log.ForService("search"),
	}
}

// Search runs one federated search.
//
// An empty or whitespace-only query returns an empty result set with no
// error and writes no history. A domain source failure is absorbed: the
// domain contributes nothing to that search and the failure is logged,
// never surfaced. History persistence failures are likewise logged only.
func (s *Service) Search(ctx context.Context, params Params) ([]core.SearchResult, error) {
	query := strings.ToLower(strings.TrimSpace(params.Query))
	if query == "" {
		return nil, nil
	}

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	domains := params.Filter.Domains()

	// Each domain gets limit/4 even when fewer than four domains are
	// selected. This reproduces the established ranking behavior;
	// changing the share changes which results make the cut.
	perDomain := limit / domainShare
	if perDomain < 1 {
		perDomain = 1
	}

	buckets := make([][]core.SearchResult, len(domains))
	g, gctx := errgroup.WithContext(ctx)
	for i, domain := range domains {
		g.Go(func() error {
			source, err := s.registry.GetSource(domain)
			if err != nil {
				s.logger.Debugf("skipping %s: %v", domain, err)
				return nil
			}
			results, err := source.Search(gctx, query, params.Filter, perDomain)
			if err != nil {
				// Source isolation: one domain failing never aborts
				// the federated search.
				s.logger.Warnf("domain %s unavailable: %v", domain, err)
				return nil
			}
			buckets[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []core.SearchResult
	for _, bucket := range buckets {
		merged = append(merged, bucket...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Relevance > merged[j].Relevance
	})
	SortResults(merged, params.Filter.SortBy, params.Filter.SortAscending)

	if len(merged) > limit {
		merged = merged[:limit]
	}

	if s.history != nil {
		if err := s.history.RecordSearch(ctx, params.Query, params.Filter, len(merged), params.OwnerID); err != nil {
			s.logger.Warnf("recording search history: %v", err)
		}
	}

	return merged, nil
}

// ParseParams parses HTTP query parameters into search Params. Invalid
// numbers fall back to defaults; invalid dates, domains and sort options
// are rejected.
//
// Supported parameters: q, domain (repeatable), tag (repeatable), sort,
// order (asc|desc), start_date/end_date (YYYY-MM-DD, end exclusive at
// the following midnight), limit, owner, meta.<key>=<value>.
func ParseParams(queryParams map[string][]string) (Params, error) {
	params := Params{Limit: DefaultLimit}

	if q := queryParams["q"]; len(q) > 0 {
		params.Query = q[0]
	}
	if owner := queryParams["owner"]; len(owner) > 0 {
		params.OwnerID = owner[0]
	}
	if limitStr := queryParams["limit"]; len(limitStr) > 0 && limitStr[0] != "" {
		if parsed, err := strconv.Atoi(limitStr[0]); err == nil && parsed > 0 {
			params.Limit = parsed
		}
	}

	for _, d := range queryParams["domain"] {
		domain, err := core.ParseDomainType(d)
		if err != nil {
			return params, err
		}
		params.Filter.Types = append(params.Filter.Types, domain)
	}

	params.Filter.Tags = append(params.Filter.Tags, queryParams["tag"]...)

	if sortStr := queryParams["sort"]; len(sortStr) > 0 {
		sortBy, err := core.ParseSortOption(sortStr[0])
		if err != nil {
			return params, err
		}
		params.Filter.SortBy = sortBy
	}
	if order := queryParams["order"]; len(order) > 0 {
		params.Filter.SortAscending = order[0] == "asc"
	}

	var start, end time.Time
	if startStr := queryParams["start_date"]; len(startStr) > 0 && startStr[0] != "" {
		parsed, err := time.Parse("2006-01-02", startStr[0])
		if err != nil {
			return params, err
		}
		start = parsed
	}
	if endStr := queryParams["end_date"]; len(endStr) > 0 && endStr[0] != "" {
		parsed, err := time.Parse("2006-01-02", endStr[0])
		if err != nil {
			return params, err
		}
		end = parsed.AddDate(0, 0, 1)
	}
	if !start.IsZero() || !end.IsZero() {
		if end.IsZero() {
			// Open-ended range: anything from start onwards.
			end = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
		}
		dr, err := core.NewDateRange(start, end)
		if err != nil {
			return params, err
		}
		params.Filter.DateRange = &dr
	}

	for key, values := range queryParams {
		if name, ok := strings.CutPrefix(key, "meta."); ok && len(values) > 0 {
			if params.Filter.Custom == nil {
				params.Filter.Custom = make(map[string]string)
			}
			params.Filter.Custom[name] = values[0]
		}
	}

	return params, nil
}
