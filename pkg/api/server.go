// Package api exposes the federated search over HTTP: REST endpoints
// for search, suggestions and history, plus a websocket endpoint that
// runs a full debounced input pipeline per connection.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
	"github.com/maniraj0007/task-management-app-sub004/pkg/history"
	"github.com/maniraj0007/task-management-app-sub004/pkg/log"
	"github.com/maniraj0007/task-management-app-sub004/pkg/search"
)

// Options carries the per-deployment knobs the handlers need.
type Options struct {
	// DefaultOwner scopes history and suggestions when a request does
	// not name an owner.
	DefaultOwner string
	// Debounce is the keystroke pause used by live search sessions.
	// Zero means the pipeline default.
	Debounce time.Duration
	// SearchLimit caps live search result sets. Zero means the
	// coordinator default.
	SearchLimit int
}

type Server struct {
	registry *core.Registry
	service  *search.Service
	history  *history.Store
	opts     Options
	logger   *log.Logger
}

func NewServer(registry *core.Registry, service *search.Service, historyStore *history.Store, opts Options) *Server {
	return &Server{
		registry: registry,
		service:  service,
		history:  historyStore,
		opts:     opts,
		logger:   log.ForService("api"),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

// ownerFor resolves the owner a request operates on.
func (s *Server) ownerFor(r *http.Request) string {
	if owner := r.URL.Query().Get("owner"); owner != "" {
		return owner
	}
	return s.opts.DefaultOwner
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
