package core

import "context"

// RecordQuerier is the store-level query surface a domain source needs.
// It is deliberately narrow: a prefix range scan over one of the indexed
// text fields, an exact tag containment lookup, and a point read. The
// storage package provides the SQLite-backed implementation; tests
// substitute in-memory fakes.
type RecordQuerier interface {
	// ScanPrefix returns up to limit records whose field value lies in
	// [prefix, prefix+sentinel), ordered by that field. Field must be
	// one of "title" or "description".
	ScanPrefix(ctx context.Context, field, prefix string, limit int) ([]Record, error)

	// ScanTag returns up to limit records carrying exactly the given tag.
	ScanTag(ctx context.Context, tag string, limit int) ([]Record, error)

	// Get returns the record with the given id, or ok=false.
	Get(ctx context.Context, id string) (Record, bool, error)
}

// DomainSource adapts one entity domain to the federated search. Each
// source knows how to pull a candidate set from its collection, validate
// candidates against the active filter, score them and wrap them into
// the unified result shape.
//
// Sources are registered as prototypes during init() and instantiated
// per collection through Factory, mirroring how the rest of the system
// wires pluggable components:
//
//	func init() {
//		core.RegisterSourcePrototype(core.DomainTask, &Source{})
//	}
//
// Search implementations must:
//   - cap each candidate pass at limit and skip ids already collected,
//     so one underlying record never yields two results
//   - drop filter-rejected candidates without counting them against limit
//   - return an error on store failure; the coordinator absorbs it and
//     treats the domain as empty for that search
type DomainSource interface {
	// Domain returns the entity category this source serves.
	Domain() DomainType

	// Name returns a human-readable identifier for logging and stats.
	Name() string

	// Search returns scored, filtered, de-duplicated results for the
	// normalized (lowercased, trimmed) query.
	Search(ctx context.Context, query string, filter SearchFilter, limit int) ([]SearchResult, error)

	// Close releases any resources held by the source. The backing
	// store is owned by the storage manager and closed separately.
	Close() error

	// Factory builds a usable source bound to the given store.
	Factory(store RecordQuerier) (DomainSource, error)
}
