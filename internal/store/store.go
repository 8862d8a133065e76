// Package store holds the relational data access for regions and events.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SQLite ships with foreign keys disabled
const sqliteForeignKeys = "_pragma=foreign_keys(1)"

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

var schemas = map[string][]string{
	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS region (
			noc    TEXT PRIMARY KEY,
			region TEXT NOT NULL,
			notes  TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS event (
			event_id              SERIAL PRIMARY KEY,
			noc                   TEXT NOT NULL REFERENCES region (noc),
			type                  TEXT NOT NULL,
			year                  INTEGER NOT NULL,
			country               TEXT,
			host                  TEXT,
			start_date            TEXT,
			end_date              TEXT,
			duration              INTEGER,
			disabilities_included TEXT,
			countries             INTEGER,
			events                INTEGER,
			sports                INTEGER,
			participants_m        INTEGER,
			participants_f        INTEGER,
			participants          INTEGER,
			highlights            TEXT,
			url                   TEXT
		)`,
	},
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS region (
			noc    TEXT PRIMARY KEY,
			region TEXT NOT NULL,
			notes  TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS event (
			event_id              INTEGER PRIMARY KEY AUTOINCREMENT,
			noc                   TEXT NOT NULL REFERENCES region (noc),
			type                  TEXT NOT NULL,
			year                  INTEGER NOT NULL,
			country               TEXT,
			host                  TEXT,
			start_date            TEXT,
			end_date              TEXT,
			duration              INTEGER,
			disabilities_included TEXT,
			countries             INTEGER,
			events                INTEGER,
			sports                INTEGER,
			participants_m        INTEGER,
			participants_f        INTEGER,
			participants          INTEGER,
			highlights            TEXT,
			url                   TEXT
		)`,
	},
}

// Open connects to the database and creates the tables if they are missing.
// The returned handle is shared by every request for the lifetime of the
// process.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	stmts, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		if err := configureSQLite(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return db, nil
}

// sqliteDSN adds the foreign key pragma to the DSN so the driver applies it
// to every connection it opens, not just the first one.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, sqliteForeignKeys) {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + sqliteForeignKeys
}

// configureSQLite pins the pool to one connection so ":memory:" databases
// stay alive, then checks that foreign keys are enforced.
func configureSQLite(ctx context.Context, db *sqlx.DB) error {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	var enabled int
	if err := db.GetContext(ctx, &enabled, "PRAGMA foreign_keys"); err != nil {
		return fmt.Errorf("verifying foreign keys: %w", err)
	}
	if enabled != 1 {
		return fmt.Errorf("foreign keys not enabled (got %d)", enabled)
	}
	return nil
}
