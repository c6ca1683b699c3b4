package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"taxakey/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*Client)(nil)

type Client struct {
	db *sql.DB
}

func New(ctx context.Context, dsn string) (*Client, error) {
	driverDSN, err := parseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite DSN: %w", err)
	}

	db, err := sql.Open("sqlite", driverDSN)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 30000;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	return &Client{db: db}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close()
}

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS key_info (
		id                INTEGER PRIMARY KEY CHECK (id = 1),
		title             TEXT NOT NULL,
		authors           TEXT DEFAULT '',
		description       TEXT DEFAULT '',
		scorable_features INTEGER NOT NULL,
		exported_at       TEXT DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS entities (
		entity_id TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		is_group  INTEGER NOT NULL DEFAULT 0,
		parent_id TEXT,
		position  INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS features (
		feature_id TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		kind       TEXT NOT NULL,
		is_state   INTEGER NOT NULL DEFAULT 0,
		group_name TEXT DEFAULT '',
		unit       TEXT DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS state_scores (
		entity_id  TEXT NOT NULL,
		feature_id TEXT NOT NULL,
		value      TEXT NOT NULL,
		PRIMARY KEY (entity_id, feature_id)
	);

	CREATE TABLE IF NOT EXISTS numeric_scores (
		entity_id  TEXT NOT NULL,
		feature_id TEXT NOT NULL,
		min        REAL NOT NULL,
		max        REAL NOT NULL,
		PRIMARY KEY (entity_id, feature_id)
	);

	CREATE TABLE IF NOT EXISTS warnings (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		message TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entities_parent ON entities (parent_id);
	CREATE INDEX IF NOT EXISTS idx_features_group ON features (group_name);
	CREATE INDEX IF NOT EXISTS idx_state_scores_feature ON state_scores (feature_id);
	CREATE INDEX IF NOT EXISTS idx_numeric_scores_feature ON numeric_scores (feature_id);
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}

	return statements
}
