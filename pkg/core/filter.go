package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidDateRange is returned when a date range is constructed
	// with a start after its end. Malformed ranges are rejected at
	// construction time, never at search time.
	ErrInvalidDateRange = errors.New("invalid date range: start after end")

	// ErrUnknownDomain is returned when a domain type string does not
	// match any known domain.
	ErrUnknownDomain = errors.New("unknown domain type")
)

// SortOption selects the secondary ordering applied to merged results.
type SortOption string

const (
	SortRelevance    SortOption = "relevance"
	SortCreatedDate  SortOption = "created"
	SortUpdatedDate  SortOption = "updated"
	SortAlphabetical SortOption = "alphabetical"
	SortPriority     SortOption = "priority"
)

// ParseSortOption converts a string into a SortOption, defaulting to
// relevance for empty input.
func ParseSortOption(s string) (SortOption, error) {
	if s == "" {
		return SortRelevance, nil
	}
	switch SortOption(s) {
	case SortRelevance, SortCreatedDate, SortUpdatedDate, SortAlphabetical, SortPriority:
		return SortOption(s), nil
	}
	return "", fmt.Errorf("unknown sort option %q", s)
}

// DateRange is a half-open interval [Start, End). Use NewDateRange to
// construct a validated range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange validates and builds a half-open date range.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.After(end) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{Start: start, End: end}, nil
}

// Contains reports whether t falls inside the half-open interval.
// The zero time never falls inside a range: absent timestamps fail an
// active constraint instead of silently passing.
func (d DateRange) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return !t.Before(d.Start) && t.Before(d.End)
}

// SearchFilter narrows a federated search. The zero value means
// "no restriction" for every constraint: an empty Types slice selects
// all domains, a nil DateRange skips date checks, and so on. Absence of
// a constraint is never an empty-set match.
//
// Filters are immutable by convention: the input pipeline replaces the
// whole value on every change so a filter can be shared across
// concurrent in-flight searches without locking.
type SearchFilter struct {
	Types         []DomainType      `json:"types,omitempty"`
	DateRange     *DateRange        `json:"date_range,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Custom        map[string]string `json:"custom,omitempty"`
	SortBy        SortOption        `json:"sort_by,omitempty"`
	SortAscending bool              `json:"sort_ascending,omitempty"`
}

// HasType reports whether the filter selects the given domain. An empty
// Types slice selects everything.
func (f SearchFilter) HasType(d DomainType) bool {
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if t == d {
			return true
		}
	}
	return false
}

// Domains returns the domains this filter fans out to, preserving the
// canonical search order.
func (f SearchFilter) Domains() []DomainType {
	if len(f.Types) == 0 {
		return SearchableDomains
	}
	var out []DomainType
	for _, d := range SearchableDomains {
		if f.HasType(d) {
			out = append(out, d)
		}
	}
	return out
}

// ToMap serializes the filter into a flat key-value record so callers
// can persist a "last used filter" without depending on this package's
// types. FilterFromMap reverses it.
func (f SearchFilter) ToMap() map[string]string {
	m := make(map[string]string)
	if len(f.Types) > 0 {
		types := make([]string, len(f.Types))
		for i, t := range f.Types {
			types[i] = string(t)
		}
		m["types"] = strings.Join(types, ",")
	}
	if f.DateRange != nil {
		m["date_start"] = f.DateRange.Start.Format(time.RFC3339)
		m["date_end"] = f.DateRange.End.Format(time.RFC3339)
	}
	if len(f.Tags) > 0 {
		m["tags"] = strings.Join(f.Tags, ",")
	}
	for k, v := range f.Custom {
		m["custom."+k] = v
	}
	if f.SortBy != "" {
		m["sort_by"] = string(f.SortBy)
	}
	m["sort_ascending"] = strconv.FormatBool(f.SortAscending)
	return m
}

// FilterFromMap rebuilds a SearchFilter from the flat record produced by
// ToMap. Unknown domain types, sort options and malformed dates are
// rejected rather than dropped.
func FilterFromMap(m map[string]string) (SearchFilter, error) {
	var f SearchFilter
	if types := m["types"]; types != "" {
		for _, s := range strings.Split(types, ",") {
			d, err := ParseDomainType(s)
			if err != nil {
				return SearchFilter{}, err
			}
			f.Types = append(f.Types, d)
		}
	}
	if start, ok := m["date_start"]; ok {
		startAt, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return SearchFilter{}, fmt.Errorf("parsing date_start: %w", err)
		}
		endAt, err := time.Parse(time.RFC3339, m["date_end"])
		if err != nil {
			return SearchFilter{}, fmt.Errorf("parsing date_end: %w", err)
		}
		dr, err := NewDateRange(startAt, endAt)
		if err != nil {
			return SearchFilter{}, err
		}
		f.DateRange = &dr
	}
	if tags := m["tags"]; tags != "" {
		f.Tags = strings.Split(tags, ",")
	}
	for k, v := range m {
		if name, ok := strings.CutPrefix(k, "custom."); ok {
			if f.Custom == nil {
				f.Custom = make(map[string]string)
			}
			f.Custom[name] = v
		}
	}
	sortBy, err := ParseSortOption(m["sort_by"])
	if err != nil {
		return SearchFilter{}, err
	}
	f.SortBy = sortBy
	f.SortAscending = m["sort_ascending"] == "true"
	return f, nil
}

// renderMetaValue renders a metadata value the way custom filters
// compare it: exact string form, with floats that carry no fraction
// rendered as integers so JSON round-trips keep matching.
func renderMetaValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// RenderMetaValue exposes the canonical string form of a metadata value
// for the filter engine's exact-match comparison.
func RenderMetaValue(v any) string { return renderMetaValue(v) }
