package api

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
	"github.com/maniraj0007/task-management-app-sub004/pkg/input"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The REST endpoints already allow any origin via CORS; the
	// websocket endpoint matches that stance.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// liveFrame is one client-to-server message on a live search session.
type liveFrame struct {
	Type string `json:"type"`
	// Query carries the full current text for "query" frames.
	Query string `json:"query,omitempty"`
	// Filter carries a serialized filter for "filter" frames.
	Filter map[string]string `json:"filter,omitempty"`
}

// liveState is one server-to-client snapshot push.
type liveState struct {
	Type        string               `json:"type"`
	State       string               `json:"state"`
	Query       string               `json:"query"`
	Seq         uint64               `json:"seq"`
	Results     []ResultResponse     `json:"results"`
	Suggestions []SuggestionResponse `json:"suggestions"`
	Error       string               `json:"error,omitempty"`
}

// HandleLiveSearch upgrades the connection and runs one debounced input
// pipeline for it. The client streams "query"/"filter"/"clear" frames;
// the server pushes a state snapshot after every pipeline transition.
func (s *Server) HandleLiveSearch(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.logger.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.logger.Debugf("closing live session: %v", err)
		}
	}()

	owner := s.ownerFor(r)

	// A single writer goroutine owns all writes to the connection.
	// Snapshots are dropped, not queued unboundedly, when the client
	// cannot keep up.
	outbound := make(chan liveState, 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for state := range outbound {
			if err := conn.WriteJSON(state); err != nil {
				s.logger.Debugf("live session write: %v", err)
				return
			}
		}
	}()

	push := func(kind string, snap input.Snapshot) {
		state := liveState{
			Type:        kind,
			State:       string(snap.State),
			Query:       snap.Text,
			Seq:         snap.Seq,
			Results:     toResultResponses(snap.Results),
			Suggestions: toSuggestionResponses(snap.Suggestions),
		}
		if snap.Err != nil {
			state.Error = snap.Err.Error()
		}
		select {
		case outbound <- state:
		default:
			s.logger.Warnf("live session %s: dropping snapshot, slow consumer", owner)
		}
	}

	pipeline := input.NewPipeline(input.Options{
		Searcher:  s.service,
		Suggester: s.history,
		Debounce:  s.opts.Debounce,
		Limit:     s.opts.SearchLimit,
		OwnerID:   owner,
		OnChange:  func(snap input.Snapshot) { push("state", snap) },
	})

	push("init", pipeline.Snapshot())

	ctx := r.Context()
	for {
		var frame liveFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debugf("live session read: %v", err)
			}
			break
		}

		switch frame.Type {
		case "query":
			pipeline.SetText(ctx, frame.Query)
		case "filter":
			filter, err := core.FilterFromMap(frame.Filter)
			if err != nil {
				s.logger.Warnf("live session %s: bad filter frame: %v", owner, err)
				continue
			}
			pipeline.SetFilter(ctx, filter)
		case "clear":
			pipeline.Clear(ctx)
		default:
			s.logger.Warnf("live session %s: unknown frame type %q", owner, frame.Type)
		}
	}

	pipeline.Clear(ctx)
	close(outbound)
	<-writerDone
}
