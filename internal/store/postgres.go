package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spigell/staffmatch/internal/candidate"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS candidates (
	seq      BIGSERIAL,
	id       TEXT PRIMARY KEY,
	document JSONB NOT NULL
)`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Postgres keeps candidates as JSONB documents. Load order is insertion order.
type Postgres struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("postgres uri is required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating candidates table: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) LoadAll(ctx context.Context) ([]candidate.Record, error) {
	query, args, err := psql.Select("id", "document").From(candidatesTable).OrderBy("seq").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var records []candidate.Record
	for rows.Next() {
		var (
			id       string
			document []byte
		)
		if err := rows.Scan(&id, &document); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}

		var rec candidate.Record
		if err := json.Unmarshal(document, &rec); err != nil {
			return nil, fmt.Errorf("decode candidate %s: %w", id, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	return records, nil
}

func (p *Postgres) Insert(ctx context.Context, rec candidate.Record) (string, error) {
	doc, id := withID(rec, "id")

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode candidate %s: %w", id, err)
	}

	query, args, err := psql.Insert(candidatesTable).Columns("id", "document").Values(id, string(data)).ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}

	if _, err := p.pool.Exec(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert candidate %s: %w", id, err)
	}

	return id, nil
}

func (p *Postgres) Close(context.Context) error {
	p.pool.Close()
	return nil
}
