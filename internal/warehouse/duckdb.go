package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb" // DuckDB driver
	apperrors "github.com/schemadrift/schemadrift/internal/errors"
	"github.com/schemadrift/schemadrift/internal/schema"
)

// DuckDBProvider implements Provider against a DuckDB database file. It is
// the local stand-in for a remote warehouse account and answers all metadata
// queries from information_schema.
type DuckDBProvider struct {
	db   *sql.DB
	path string
}

// NewDuckDBProvider opens (or creates) the database at dbPath with connection
// pooling configured
func NewDuckDBProvider(dbPath string) (*DuckDBProvider, error) {
	if dbPath != ":memory:" && dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DuckDBProvider{db: db, path: dbPath}, nil
}

// DB exposes the underlying connection for seeding in tests and tooling
func (p *DuckDBProvider) DB() *sql.DB {
	return p.db
}

func (p *DuckDBProvider) ListDatabases(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, p.db, "database listing",
		`SELECT DISTINCT catalog_name FROM information_schema.schemata ORDER BY catalog_name`)
}

func (p *DuckDBProvider) ListSchemas(ctx context.Context, database string) ([]string, error) {
	return queryStrings(ctx, p.db, "schema listing",
		`SELECT schema_name FROM information_schema.schemata
		 WHERE catalog_name = ? AND schema_name NOT IN ('information_schema', 'pg_catalog')
		 ORDER BY schema_name`, database)
}

func (p *DuckDBProvider) ListTables(ctx context.Context, database, schemaName string) ([]string, error) {
	return queryStrings(ctx, p.db, "table listing",
		`SELECT table_name FROM information_schema.tables
		 WHERE table_catalog = ? AND table_schema = ?
		 ORDER BY table_name`, database, schemaName)
}

// FetchColumns reads the table's columns in ordinal position order. Declared
// types are kept as the warehouse reports them; they already name concrete
// storage types and are diffed as-is.
func (p *DuckDBProvider) FetchColumns(ctx context.Context, database, schemaName, table string) (schema.Schema, error) {
	const step = "column fetch"

	rows, err := p.db.QueryContext(ctx,
		`SELECT column_name, data_type FROM information_schema.columns
		 WHERE table_catalog = ? AND table_schema = ? AND table_name = ?
		 ORDER BY ordinal_position`, database, schemaName, table)
	if err != nil {
		return nil, apperrors.NewSchemaSourceError(err, step)
	}

	defer func() { _ = rows.Close() }()

	result := schema.Schema{}

	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return nil, apperrors.NewSchemaSourceError(err, step)
		}

		result[name] = schema.TypeLabel(dataType)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewSchemaSourceError(err, step)
	}

	return result, nil
}

func (p *DuckDBProvider) Close() error {
	return p.db.Close()
}
