package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
)

// HistoryStore persists completed searches. Reads are owner-scoped and
// ordered newest first; deletes are owner-scoped and transactional.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore opens (and if needed creates) the history database at
// dbPath, applying any pending schema migrations.
func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	db, err := openMigrated(dbPath, "history")
	if err != nil {
		return nil, err
	}
	return &HistoryStore{db: db}, nil
}

func (h *HistoryStore) Close() error {
	return h.db.Close()
}

// Append persists one history entry.
func (h *HistoryStore) Append(ctx context.Context, entry core.HistoryEntry) error {
	filtersJSON, err := json.Marshal(filtersOrEmpty(entry.Filters))
	if err != nil {
		return fmt.Errorf("marshaling filters for %s: %w", entry.ID, err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO search_history (id, query, filters, timestamp, result_count, owner_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Query, string(filtersJSON),
		entry.Timestamp.UTC().Format(time.RFC3339Nano), entry.ResultCount, entry.OwnerID)
	if err != nil {
		return fmt.Errorf("appending history entry %s: %w", entry.ID, err)
	}
	return nil
}

// RecentByOwner returns the owner's most recent entries, newest first,
// capped at limit.
func (h *HistoryStore) RecentByOwner(ctx context.Context, ownerID string, limit int) ([]core.HistoryEntry, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, query, filters, timestamp, result_count, owner_id
		FROM search_history
		WHERE owner_id = ?
		ORDER BY timestamp DESC
		LIMIT ?`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("reading history for %s: %w", ownerID, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []core.HistoryEntry
	for rows.Next() {
		var entry core.HistoryEntry
		var filtersJSON, timestamp string
		if err := rows.Scan(&entry.ID, &entry.Query, &filtersJSON, &timestamp, &entry.ResultCount, &entry.OwnerID); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if err := json.Unmarshal([]byte(filtersJSON), &entry.Filters); err != nil {
			return nil, fmt.Errorf("unmarshaling filters for %s: %w", entry.ID, err)
		}
		if entry.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp); err != nil {
			return nil, fmt.Errorf("parsing timestamp for %s: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DeleteByOwner removes all of the owner's entries in one transaction
// and reports how many were deleted.
func (h *HistoryStore) DeleteByOwner(ctx context.Context, ownerID string) (int, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, "DELETE FROM search_history WHERE owner_id = ?", ownerID)
	if err != nil {
		return 0, fmt.Errorf("deleting history for %s: %w", ownerID, err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return int(deleted), nil
}

// CountByOwner returns how many entries the owner has.
func (h *HistoryStore) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := h.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM search_history WHERE owner_id = ?", ownerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting history for %s: %w", ownerID, err)
	}
	return n, nil
}

func filtersOrEmpty(filters map[string]string) map[string]string {
	if filters == nil {
		return map[string]string{}
	}
	return filters
}
