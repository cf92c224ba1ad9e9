package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// API routes with method-specific routing
	mux.HandleFunc("GET /api/search", s.HandleSearch)
	mux.HandleFunc("GET /api/suggestions", s.HandleSuggestions)
	mux.HandleFunc("GET /api/history", s.HandleHistory)
	mux.HandleFunc("DELETE /api/history", s.HandleClearHistory)
	mux.HandleFunc("GET /api/domains", s.HandleDomains)
	mux.HandleFunc("GET /api/live", s.HandleLiveSearch)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
