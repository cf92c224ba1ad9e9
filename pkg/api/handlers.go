package api

import (
	"net/http"
	"time"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
	"github.com/maniraj0007/task-management-app-sub004/pkg/search"
	"github.com/maniraj0007/task-management-app-sub004/pkg/version"
)

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params, err := search.ParseParams(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid search parameters", err.Error())
		return
	}

	// API requires a query parameter
	if params.Query == "" {
		s.writeError(w, http.StatusBadRequest, "Missing query parameter", "Query parameter 'q' is required")
		return
	}
	if params.OwnerID == "" {
		params.OwnerID = s.opts.DefaultOwner
	}

	results, err := s.service.Search(r.Context(), params)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}

	response := SearchResponse{
		Query:   params.Query,
		Results: toResultResponses(results),
		Count:   len(results),
		Limit:   params.Limit,
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")
	owner := s.ownerFor(r)

	suggestions, err := s.history.SuggestionsFor(r.Context(), owner, prefix)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to load suggestions", err.Error())
		return
	}

	response := SuggestionsResponse{
		Prefix:      prefix,
		Suggestions: toSuggestionResponses(suggestions),
		Count:       len(suggestions),
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleHistory(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerFor(r)

	entries, err := s.history.Recent(r.Context(), owner)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to load history", err.Error())
		return
	}

	entryResponses := make([]HistoryEntryResponse, len(entries))
	for i, entry := range entries {
		entryResponses[i] = HistoryEntryResponse{
			ID:          entry.ID,
			Query:       entry.Query,
			Filters:     entry.Filters,
			Timestamp:   entry.Timestamp,
			ResultCount: entry.ResultCount,
		}
	}

	response := HistoryResponse{
		Owner:   owner,
		Entries: entryResponses,
		Count:   len(entryResponses),
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerFor(r)

	if err := s.history.ClearHistory(r.Context(), owner); err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to clear history", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, ClearHistoryResponse{Owner: owner, Cleared: true})
}

func (s *Server) HandleDomains(w http.ResponseWriter, r *http.Request) {
	active := make(map[core.DomainType]bool)
	for _, d := range s.registry.ActiveDomains() {
		active[d] = true
	}

	infos := make([]DomainInfo, 0, len(core.SearchableDomains))
	for _, d := range core.SearchableDomains {
		infos = append(infos, DomainInfo{
			Name:   string(d),
			Active: active[d],
		})
	}

	response := DomainsResponse{
		Domains: infos,
		Count:   len(infos),
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	}

	s.writeJSON(w, http.StatusOK, health)
}

func toResultResponses(results []core.SearchResult) []ResultResponse {
	out := make([]ResultResponse, len(results))
	for i, res := range results {
		out[i] = ResultResponse{
			ID:           res.ID,
			Title:        res.Title,
			Subtitle:     res.Subtitle,
			Description:  res.Description,
			Domain:       string(res.Domain),
			Relevance:    res.Relevance,
			CreatedAt:    res.CreatedAt,
			UpdatedAt:    res.UpdatedAt,
			Tags:         res.Tags,
			Metadata:     res.Metadata,
			ImageURL:     res.ImageURL,
			ActionTarget: res.ActionTarget,
		}
	}
	return out
}

func toSuggestionResponses(suggestions []core.Suggestion) []SuggestionResponse {
	out := make([]SuggestionResponse, len(suggestions))
	for i, sug := range suggestions {
		out[i] = SuggestionResponse{
			Text:       sug.Text,
			Type:       string(sug.Type),
			Frequency:  sug.Frequency,
			LastUsedAt: sug.LastUsedAt,
		}
	}
	return out
}
