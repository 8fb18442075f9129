package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerbook-erp/ledgerbook/internal/shared"
)

const pgUndefinedTable = "42P01"

// Postgres keeps one row per (table_name, scope) in a documents table:
//
//	CREATE TABLE documents (
//	    table_name TEXT NOT NULL,
//	    scope      TEXT NOT NULL DEFAULT '',
//	    body       JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    PRIMARY KEY (table_name, scope)
//	);
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// wrapPgError maps a missing documents table onto the
// ErrStoreNotInitialized sentinel; everything else is wrapped as is.
func wrapPgError(op, table string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return fmt.Errorf("docstore: %s %s: %w", op, table, shared.ErrStoreNotInitialized)
	}
	return fmt.Errorf("docstore: %s %s: %w", op, table, err)
}

// Read returns the stored document or nil when absent.
func (p *Postgres) Read(ctx context.Context, table, scope string) ([]byte, error) {
	const query = `SELECT body FROM documents WHERE table_name = $1 AND scope = $2`
	var body []byte
	err := p.pool.QueryRow(ctx, query, table, scope).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapPgError("read", table, err)
	}
	return body, nil
}

// Write upserts the document.
func (p *Postgres) Write(ctx context.Context, table string, payload []byte, scope string) error {
	const query = `
		INSERT INTO documents (table_name, scope, body, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (table_name, scope)
		DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`
	if _, err := p.pool.Exec(ctx, query, table, scope, payload); err != nil {
		return wrapPgError("write", table, err)
	}
	return nil
}
