package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/spigell/staffmatch/internal/candidate"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS candidates (
	id       TEXT PRIMARY KEY,
	document TEXT NOT NULL
)`

// SQLite keeps each candidate as a JSON document keyed by its id. Load order is insertion order.
type SQLite struct {
	db   *sql.DB
	path string
}

func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite store path is required")
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating candidates table: %w", err)
	}

	return &SQLite{db: db, path: path}, nil
}

func (s *SQLite) LoadAll(ctx context.Context) ([]candidate.Record, error) {
	query, args, err := sq.Select("id", "document").From(candidatesTable).OrderBy("rowid").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var records []candidate.Record
	for rows.Next() {
		var id, document string
		if err := rows.Scan(&id, &document); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}

		var rec candidate.Record
		if err := json.Unmarshal([]byte(document), &rec); err != nil {
			return nil, fmt.Errorf("decode candidate %s: %w", id, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	return records, nil
}

func (s *SQLite) Insert(ctx context.Context, rec candidate.Record) (string, error) {
	doc, id := withID(rec, "id")

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode candidate %s: %w", id, err)
	}

	query, args, err := sq.Insert(candidatesTable).Columns("id", "document").Values(id, string(data)).ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert candidate %s: %w", id, err)
	}

	return id, nil
}

func (s *SQLite) Close(context.Context) error {
	return s.db.Close()
}
