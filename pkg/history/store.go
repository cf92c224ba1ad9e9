// Package history implements the suggestion & history store: it records
// every completed search, keeps an owner-scoped cache of the most
// recent entries, and derives ranked query suggestions from that cache
// plus a static list of popular terms.
//
// The in-memory cache is only ever mutated after a successful
// persistence round-trip; there is no optimistic update.
package history

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
	"github.com/maniraj0007/task-management-app-sub004/pkg/storage"
)

const (
	// HistoryCap is how many entries per owner the store keeps loaded.
	HistoryCap = 20
	// SuggestionCap bounds every suggestion response.
	SuggestionCap = 10
)

// popularSeeds are the static suggestions that survive a history clear.
// Regenerated into the cache on every load, never persisted.
var popularSeeds = []core.Suggestion{
	{Text: "urgent", Type: core.SuggestionTag},
	{Text: "bug", Type: core.SuggestionTag},
	{Text: "meeting", Type: core.SuggestionTag},
	{Text: "review", Type: core.SuggestionTag},
	{Text: "design", Type: core.SuggestionTag},
	{Text: "sprint", Type: core.SuggestionTag},
	{Text: "deadline", Type: core.SuggestionTag},
	{Text: "frontend", Type: core.SuggestionTag},
	{Text: "backend", Type: core.SuggestionTag},
	{Text: "release", Type: core.SuggestionTag},
}

type ownerCache struct {
	recent      []core.HistoryEntry
	suggestions []core.Suggestion
}

// Store is the suggestion & history store.
type Store struct {
	history *storage.HistoryStore
	now     func() time.Time
	newID   func() string

	mu     sync.RWMutex
	owners map[string]*ownerCache
}

// NewStore builds a store over the persisted history collection.
func NewStore(history *storage.HistoryStore) *Store {
	return &Store{
		history: history,
		now:     time.Now,
		newID:   uuid.NewString,
		owners:  make(map[string]*ownerCache),
	}
}

// SetNow overrides the clock. Test hook.
func (s *Store) SetNow(now func() time.Time) { s.now = now }

// RecordSearch appends one history entry for a completed search, then
// reloads the owner's capped recent list and regenerates suggestions.
// The caller guarantees the query is non-empty.
func (s *Store) RecordSearch(ctx context.Context, query string, filter core.SearchFilter, resultCount int, ownerID string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	entry := core.HistoryEntry{
		ID:          s.newID(),
		Query:       query,
		Filters:     filter.ToMap(),
		Timestamp:   s.now(),
		ResultCount: resultCount,
		OwnerID:     ownerID,
	}
	if err := s.history.Append(ctx, entry); err != nil {
		return fmt.Errorf("persisting history entry: %w", err)
	}

	return s.reload(ctx, ownerID)
}

// SuggestionsFor returns up to SuggestionCap ranked suggestions for the
// given prefix. An empty prefix returns the head of the cached list;
// otherwise suggestions whose text case-insensitively contains the
// prefix are returned.
func (s *Store) SuggestionsFor(ctx context.Context, ownerID, prefix string) ([]core.Suggestion, error) {
	cache, err := s.cacheFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var out []core.Suggestion
	for _, sug := range cache.suggestions {
		if prefix != "" && !strings.Contains(strings.ToLower(sug.Text), prefix) {
			continue
		}
		out = append(out, sug)
		if len(out) == SuggestionCap {
			break
		}
	}
	return out, nil
}

// Recent returns the owner's cached recent searches, newest first.
func (s *Store) Recent(ctx context.Context, ownerID string) ([]core.HistoryEntry, error) {
	cache, err := s.cacheFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return cache.recent, nil
}

// ClearHistory bulk-deletes the owner's entries. The cache is dropped
// only after the delete succeeds, so a failed clear leaves the previous
// suggestions intact.
func (s *Store) ClearHistory(ctx context.Context, ownerID string) error {
	if _, err := s.history.DeleteByOwner(ctx, ownerID); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}

	s.mu.Lock()
	s.owners[ownerID] = &ownerCache{suggestions: seedSuggestions()}
	s.mu.Unlock()
	return nil
}

func (s *Store) cacheFor(ctx context.Context, ownerID string) (*ownerCache, error) {
	s.mu.RLock()
	cache, ok := s.owners[ownerID]
	s.mu.RUnlock()
	if ok {
		return cache, nil
	}
	if err := s.reload(ctx, ownerID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owners[ownerID], nil
}

func (s *Store) reload(ctx context.Context, ownerID string) error {
	entries, err := s.history.RecentByOwner(ctx, ownerID, HistoryCap)
	if err != nil {
		return fmt.Errorf("reloading history: %w", err)
	}

	s.mu.Lock()
	s.owners[ownerID] = &ownerCache{
		recent:      entries,
		suggestions: buildSuggestions(entries),
	}
	s.mu.Unlock()
	return nil
}

// buildSuggestions aggregates recent queries by text (frequency and
// last use), ranks them, and appends the static seeds that are not
// already present.
func buildSuggestions(entries []core.HistoryEntry) []core.Suggestion {
	byText := make(map[string]*core.Suggestion)
	var order []string

	for _, entry := range entries {
		key := strings.ToLower(entry.Query)
		if sug, ok := byText[key]; ok {
			sug.Frequency++
			if entry.Timestamp.After(sug.LastUsedAt) {
				sug.LastUsedAt = entry.Timestamp
			}
			continue
		}
		byText[key] = &core.Suggestion{
			Text:       entry.Query,
			Type:       core.SuggestionQuery,
			Frequency:  1,
			LastUsedAt: entry.Timestamp,
		}
		order = append(order, key)
	}

	suggestions := make([]core.Suggestion, 0, len(order)+len(popularSeeds))
	for _, key := range order {
		suggestions = append(suggestions, *byText[key])
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Frequency != suggestions[j].Frequency {
			return suggestions[i].Frequency > suggestions[j].Frequency
		}
		return suggestions[i].LastUsedAt.After(suggestions[j].LastUsedAt)
	})

	for _, seed := range popularSeeds {
		if _, taken := byText[strings.ToLower(seed.Text)]; !taken {
			suggestions = append(suggestions, seed)
		}
	}
	return suggestions
}

func seedSuggestions() []core.Suggestion {
	out := make([]core.Suggestion, len(popularSeeds))
	copy(out, popularSeeds)
	return out
}
