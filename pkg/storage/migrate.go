package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/maniraj0007/task-management-app-sub004/pkg/db"
)

//go:embed migrations/records/*.sql migrations/history/*.sql
var migrationsFS embed.FS

// openMigrated opens the database at dbPath with the standard pragmas
// and brings it up to the latest schema under migrations/<kind>.
func openMigrated(dbPath, kind string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA temp_store = memory",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	fsys, err := fs.Sub(migrationsFS, "migrations/"+kind)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("locating %s migrations: %w", kind, err)
	}
	if err := db.InitializeDatabase(conn, fsys); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrating %s schema: %w", kind, err)
	}

	return conn, nil
}
