// Package storage provides the SQLite-backed collections behind the
// federated search: one record collection per domain plus the search
// history store. Collections expose exactly the query surface the
// domain sources need: prefix range scans over the indexed text fields,
// exact tag containment lookups and point reads.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
)

// scanFields whitelists the columns ScanPrefix may range over. Field
// names arrive from adapter code, never from user input, but the
// whitelist keeps the contract explicit.
var scanFields = map[string]bool{
	"title":       true,
	"description": true,
}

// highSentinel closes the half-open prefix interval: every string with
// the scanned prefix sorts below prefix+highSentinel.
const highSentinel = string(rune(0x10FFFF))

// Collection is a single domain's record store.
type Collection struct {
	db   *sql.DB
	name string
}

// NewCollection opens (and if needed creates) the collection database at
// dbPath, applying any pending schema migrations.
func NewCollection(dbPath, name string) (*Collection, error) {
	db, err := openMigrated(dbPath, "records")
	if err != nil {
		return nil, err
	}
	return &Collection{db: db, name: name}, nil
}

// Name returns the collection identifier used in paths and logs.
func (c *Collection) Name() string { return c.name }

func (c *Collection) Close() error {
	return c.db.Close()
}

// Put upserts a single record.
func (c *Collection) Put(ctx context.Context, rec core.Record) error {
	return c.PutAll(ctx, []core.Record{rec})
}

// PutAll upserts records in one transaction.
func (c *Collection) PutAll(ctx context.Context, recs []core.Record) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO records (id, title, description, tags, owner_id, created_at, updated_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range recs {
		if rec.ID == "" {
			return fmt.Errorf("record without id in %s", c.name)
		}
		tagsJSON, err := json.Marshal(tagsOrEmpty(rec.Tags))
		if err != nil {
			return fmt.Errorf("marshaling tags for %s: %w", rec.ID, err)
		}
		metaJSON, err := json.Marshal(metaOrEmpty(rec.Metadata))
		if err != nil {
			return fmt.Errorf("marshaling metadata for %s: %w", rec.ID, err)
		}
		_, err = stmt.ExecContext(ctx,
			rec.ID, rec.Title, rec.Description, string(tagsJSON), rec.OwnerID,
			timeColumn(rec.CreatedAt), timeColumn(rec.UpdatedAt), string(metaJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Get returns the record with the given id.
func (c *Collection) Get(ctx context.Context, id string) (core.Record, bool, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, title, description, tags, owner_id, created_at, updated_at, metadata
		FROM records WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return core.Record{}, false, nil
	}
	if err != nil {
		return core.Record{}, false, err
	}
	return rec, true, nil
}

// ScanPrefix returns up to limit records whose field lies in the
// half-open interval [prefix, prefix+sentinel), ordered by that field.
// The comparison is case-insensitive to match how queries are
// normalized upstream.
func (c *Collection) ScanPrefix(ctx context.Context, field, prefix string, limit int) ([]core.Record, error) {
	if !scanFields[field] {
		return nil, fmt.Errorf("field %q is not scannable", field)
	}
	if limit <= 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT id, title, description, tags, owner_id, created_at, updated_at, metadata
		FROM records
		WHERE %[1]s >= ? COLLATE NOCASE AND %[1]s < ? COLLATE NOCASE
		ORDER BY %[1]s COLLATE NOCASE
		LIMIT ?`, field)

	rows, err := c.db.QueryContext(ctx, query, prefix, prefix+highSentinel, limit)
	if err != nil {
		return nil, fmt.Errorf("prefix scan on %s.%s: %w", c.name, field, err)
	}
	return collectRecords(rows)
}

// ScanTag returns up to limit records whose tag array contains exactly
// the given tag (case-insensitive containment at the store level).
func (c *Collection) ScanTag(ctx context.Context, tag string, limit int) ([]core.Record, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, description, tags, owner_id, created_at, updated_at, metadata
		FROM records
		WHERE EXISTS (
			SELECT 1 FROM json_each(records.tags) je WHERE lower(je.value) = lower(?)
		)
		ORDER BY title COLLATE NOCASE
		LIMIT ?`, tag, limit)
	if err != nil {
		return nil, fmt.Errorf("tag scan on %s: %w", c.name, err)
	}
	return collectRecords(rows)
}

// Count returns the number of records in the collection.
func (c *Collection) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting records in %s: %w", c.name, err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (core.Record, error) {
	var rec core.Record
	var tagsJSON, metaJSON string
	var createdAt, updatedAt sql.NullString

	err := row.Scan(&rec.ID, &rec.Title, &rec.Description, &tagsJSON, &rec.OwnerID, &createdAt, &updatedAt, &metaJSON)
	if err != nil {
		return core.Record{}, err
	}

	if err := json.Unmarshal([]byte(tagsJSON), &rec.Tags); err != nil {
		return core.Record{}, fmt.Errorf("unmarshaling tags for %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(metaJSON), &rec.Metadata); err != nil {
		return core.Record{}, fmt.Errorf("unmarshaling metadata for %s: %w", rec.ID, err)
	}
	if rec.CreatedAt, err = timeFromColumn(createdAt); err != nil {
		return core.Record{}, fmt.Errorf("parsing created_at for %s: %w", rec.ID, err)
	}
	if rec.UpdatedAt, err = timeFromColumn(updatedAt); err != nil {
		return core.Record{}, fmt.Errorf("parsing updated_at for %s: %w", rec.ID, err)
	}
	return rec, nil
}

func collectRecords(rows *sql.Rows) ([]core.Record, error) {
	defer func() { _ = rows.Close() }()

	var recs []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func timeColumn(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func timeFromColumn(s sql.NullString) (time.Time, error) {
	if !s.Valid || s.String == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s.String)
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func metaOrEmpty(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
