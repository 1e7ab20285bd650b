// Package collector is the server side of the error-report wire contract:
// it accepts report payloads over HTTP and persists them to SQLite.
package collector

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// defaultBusyTimeoutMS is the SQLite busy_timeout in milliseconds.
const defaultBusyTimeoutMS = 5000

// OpenDB opens (creating if needed) the collector database at dbPath with
// WAL mode and runs migrations.
func OpenDB(dbPath string) (*sql.DB, error) {
	// modernc.org/sqlite is strict about DSNs. Use a file: URI with mode=rwc
	// so the database can be created/written consistently across platforms.
	db, err := sql.Open("sqlite", normalizeSQLiteDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer is plenty for a single collector process.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// busy_timeout first so subsequent pragmas (including WAL) wait on locks.
	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout=%d", defaultBusyTimeoutMS),
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA journal_mode=WAL",
	}

	for _, pragma := range pragmas {
		if err := RetryWithBackoff(func() error {
			_, err := db.ExecContext(context.Background(), pragma)
			return err
		}); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := RetryWithBackoff(func() error { return RunMigrations(db) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func normalizeSQLiteDSN(dbPath string) string {
	// Support an explicit file: DSN as-is.
	if strings.HasPrefix(dbPath, "file:") {
		return dbPath
	}

	// Provide a predictable in-memory option when callers use the common token.
	if dbPath == ":memory:" {
		return "file::memory:?cache=shared"
	}

	// mode=rwc => read/write/create. Without this, some environments open read-only.
	return "file:" + dbPath + "?mode=rwc"
}
