// Package input implements the per-session search input pipeline: it
// owns the live query text, debounces keystrokes before invoking the
// federated coordinator, refreshes suggestions on every edit, and
// rejects stale responses by sequence number.
//
// Concurrency contract: arming a new debounce timer cancels any
// previously armed, unfired timer (at most one outstanding timer per
// pipeline). There is no mid-flight cancellation of a running search;
// a superseded search simply has its response discarded when it lands.
package input

import (
	"context"
	"sync"
	"time"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
	"github.com/maniraj0007/task-management-app-sub004/pkg/log"
	"github.com/maniraj0007/task-management-app-sub004/pkg/search"
)

// State is the pipeline's display state.
type State string

const (
	// StateIdle means the query is empty; suggestions are shown.
	StateIdle State = "idle"
	// StateTyping means a debounce timer is armed and the federated
	// search is being withheld.
	StateTyping State = "typing"
	// StateSearching means the debounce elapsed and a search is in
	// flight.
	StateSearching State = "searching"
	// StateResults means the latest search returned at least one hit.
	StateResults State = "results"
	// StateEmpty means the latest search returned nothing.
	StateEmpty State = "empty"
)

// DefaultDebounce is the pause after the last keystroke before a
// federated search is issued.
const DefaultDebounce = 300 * time.Millisecond

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the callback was
	// prevented from running.
	Stop() bool
}

// Clock arms timers. Injected so tests can drive the debounce
// deterministically.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realTimer struct{ t *time.Timer }

func (r realTimer) Stop() bool { return r.t.Stop() }

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return realTimer{t: time.AfterFunc(d, fn)}
}

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }

// Searcher is the federated coordinator the pipeline issues searches
// through. *search.Service satisfies it.
type Searcher interface {
	Search(ctx context.Context, params search.Params) ([]core.SearchResult, error)
}

// Suggester serves prefix suggestions. *history.Store satisfies it.
type Suggester interface {
	SuggestionsFor(ctx context.Context, ownerID, prefix string) ([]core.Suggestion, error)
}

// Snapshot is an immutable view of the pipeline for display.
type Snapshot struct {
	State       State
	Text        string
	Seq         uint64
	Results     []core.SearchResult
	Suggestions []core.Suggestion
	Err         error
}

// Options configures a Pipeline.
type Options struct {
	Searcher  Searcher
	Suggester Suggester
	// Clock defaults to the wall clock.
	Clock Clock
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Limit is passed through to every search. Zero means the
	// coordinator default.
	Limit   int
	OwnerID string
	Filter  core.SearchFilter
	// OnChange, if set, is invoked with a snapshot after every state
	// transition. It runs with the pipeline locked and must not call
	// back into the pipeline.
	OnChange func(Snapshot)
}

// Pipeline is the mutable state of one search session. All exported
// methods are safe for concurrent use.
type Pipeline struct {
	searcher  Searcher
	suggester Suggester
	clock     Clock
	debounce  time.Duration
	limit     int
	ownerID   string
	onChange  func(Snapshot)
	logger    *log.Logger

	mu          sync.Mutex
	ctx         context.Context
	filter      core.SearchFilter
	timer       Timer
	seq         uint64
	state       State
	text        string
	results     []core.SearchResult
	suggestions []core.Suggestion
	err         error

	// searchDone, when set, is called after every issued search has
	// either been applied or discarded. Test hook.
	searchDone func(seq uint64, applied bool)
}

// NewPipeline builds a pipeline in the Idle state.
func NewPipeline(opts Options) *Pipeline {
	clock := opts.Clock
	if clock == nil {
		clock = RealClock()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Pipeline{
		searcher:  opts.Searcher,
		suggester: opts.Suggester,
		clock:     clock,
		debounce:  debounce,
		limit:     opts.Limit,
		ownerID:   opts.OwnerID,
		onChange:  opts.OnChange,
		logger:    log.ForService("input"),
		ctx:       context.Background(),
		filter:    opts.Filter,
		state:     StateIdle,
	}
}

// SetText applies a keystroke. It cancels any armed debounce timer,
// invalidates in-flight searches, refreshes suggestions against the new
// prefix, and for non-empty text arms a fresh debounce timer.
func (p *Pipeline) SetText(ctx context.Context, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ctx = ctx
	p.stopTimerLocked()
	p.seq++
	p.text = text
	p.err = nil
	p.refreshSuggestionsLocked(ctx, text)

	if text == "" {
		p.state = StateIdle
		p.results = nil
		p.notifyLocked()
		return
	}

	p.state = StateTyping
	p.timer = p.clock.AfterFunc(p.debounce, p.fire)
	p.notifyLocked()
}

// SetFilter replaces the active filter wholesale. If query text is
// present a search is reissued immediately, without waiting out a
// debounce.
func (p *Pipeline) SetFilter(ctx context.Context, filter core.SearchFilter) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ctx = ctx
	p.filter = filter
	p.stopTimerLocked()

	if p.text == "" {
		p.notifyLocked()
		return
	}
	p.issueLocked()
}

// Clear resets the session to Idle and invalidates any in-flight
// search.
func (p *Pipeline) Clear(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ctx = ctx
	p.stopTimerLocked()
	p.seq++
	p.text = ""
	p.results = nil
	p.err = nil
	p.state = StateIdle
	p.refreshSuggestionsLocked(ctx, "")
	p.notifyLocked()
}

// Snapshot returns the current state for display.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// fire runs when the debounce timer elapses.
func (p *Pipeline) fire() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.timer = nil
	if p.state != StateTyping || p.text == "" {
		return
	}
	p.issueLocked()
}

// issueLocked tags a new search with the next sequence number and runs
// it on its own goroutine. Caller holds p.mu.
func (p *Pipeline) issueLocked() {
	p.seq++
	p.state = StateSearching
	p.notifyLocked()

	seq := p.seq
	ctx := p.ctx
	text := p.text
	filter := p.filter
	go p.runSearch(ctx, seq, text, filter)
}

func (p *Pipeline) runSearch(ctx context.Context, seq uint64, text string, filter core.SearchFilter) {
	results, err := p.searcher.Search(ctx, search.Params{
		Query:   text,
		Filter:  filter,
		Limit:   p.limit,
		OwnerID: p.ownerID,
	})

	p.mu.Lock()
	defer p.mu.Unlock()

	if seq != p.seq {
		p.logger.Debugf("discarding stale response seq=%d current=%d", seq, p.seq)
		if p.searchDone != nil {
			p.searchDone(seq, false)
		}
		return
	}

	if err != nil {
		p.logger.Warnf("search %q failed: %v", text, err)
		p.err = err
		p.results = nil
		p.state = StateEmpty
	} else {
		p.err = nil
		p.results = results
		if len(results) == 0 {
			p.state = StateEmpty
		} else {
			p.state = StateResults
		}
	}
	p.notifyLocked()
	if p.searchDone != nil {
		p.searchDone(seq, true)
	}
}

func (p *Pipeline) refreshSuggestionsLocked(ctx context.Context, prefix string) {
	if p.suggester == nil {
		return
	}
	suggestions, err := p.suggester.SuggestionsFor(ctx, p.ownerID, prefix)
	if err != nil {
		p.logger.Warnf("suggestions for %q failed: %v", prefix, err)
		return
	}
	p.suggestions = suggestions
}

func (p *Pipeline) stopTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Pipeline) snapshotLocked() Snapshot {
	return Snapshot{
		State:       p.state,
		Text:        p.text,
		Seq:         p.seq,
		Results:     p.results,
		Suggestions: p.suggestions,
		Err:         p.err,
	}
}

func (p *Pipeline) notifyLocked() {
	if p.onChange != nil {
		p.onChange(p.snapshotLocked())
	}
}
