package storage

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a sql.DB for the play store.
type DB struct {
	conn *sql.DB
	sb   sq.StatementBuilderType
}

// isPostgres reports whether dsn is a PostgreSQL connection URL.
func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open opens (or creates) the store and applies the schema. A postgres:// URL
// selects PostgreSQL; anything else is a SQLite file path.
func Open(dsn string) (*DB, error) {
	var (
		conn *sql.DB
		err  error
		sb   = sq.StatementBuilder.PlaceholderFormat(sq.Question)
	)
	if isPostgres(dsn) {
		conn, err = sql.Open("pgx", dsn)
		sb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	} else {
		conn, err = sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", dsn))
		if err == nil {
			// One connection keeps :memory: databases coherent.
			conn.SetMaxOpenConns(1)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn, sb: sb}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
