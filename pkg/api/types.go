package api

import (
	"time"
)

type ResultResponse struct {
	ID           string                 `json:"id"`
	Title        string                 `json:"title"`
	Subtitle     string                 `json:"subtitle,omitempty"`
	Description  string                 `json:"description,omitempty"`
	Domain       string                 `json:"domain"`
	Relevance    float64                `json:"relevance"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	Tags         []string               `json:"tags,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	ImageURL     string                 `json:"image_url,omitempty"`
	ActionTarget string                 `json:"action_target"`
}

type SearchResponse struct {
	Query   string           `json:"query"`
	Results []ResultResponse `json:"results"`
	Count   int              `json:"count"`
	Limit   int              `json:"limit"`
}

type SuggestionResponse struct {
	Text       string    `json:"text"`
	Type       string    `json:"type"`
	Frequency  int       `json:"frequency,omitempty"`
	LastUsedAt time.Time `json:"last_used_at"`
}

type SuggestionsResponse struct {
	Prefix      string               `json:"prefix"`
	Suggestions []SuggestionResponse `json:"suggestions"`
	Count       int                  `json:"count"`
}

type HistoryEntryResponse struct {
	ID          string            `json:"id"`
	Query       string            `json:"query"`
	Filters     map[string]string `json:"filters,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	ResultCount int               `json:"result_count"`
}

type HistoryResponse struct {
	Owner   string                 `json:"owner"`
	Entries []HistoryEntryResponse `json:"entries"`
	Count   int                    `json:"count"`
}

type ClearHistoryResponse struct {
	Owner   string `json:"owner"`
	Cleared bool   `json:"cleared"`
}

type DomainInfo struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type DomainsResponse struct {
	Domains []DomainInfo `json:"domains"`
	Count   int          `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}
