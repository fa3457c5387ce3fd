// Package warehouse provides live schema browsing against an analytical
// database. Objects are discovered step by step (databases, then schemas,
// then tables) so each listing can fail independently with a precise error.
package warehouse

import (
	"context"
	"database/sql"

	apperrors "github.com/schemadrift/schemadrift/internal/errors"
	"github.com/schemadrift/schemadrift/internal/schema"
)

// Provider exposes warehouse metadata for interactive browsing
type Provider interface {
	// ListDatabases returns the available database names
	ListDatabases(ctx context.Context) ([]string, error)

	// ListSchemas returns the schema names in the given database
	ListSchemas(ctx context.Context, database string) ([]string, error)

	// ListTables returns the table names in the given database and schema
	ListTables(ctx context.Context, database, schemaName string) ([]string, error)

	// FetchColumns returns the column definitions of a table in positional
	// order, normalized to canonical type labels
	FetchColumns(ctx context.Context, database, schemaName, table string) (schema.Schema, error)

	// Close releases the underlying connection
	Close() error
}

func queryStrings(ctx context.Context, db *sql.DB, step, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewSchemaSourceError(err, step)
	}

	defer func() { _ = rows.Close() }()

	var values []string

	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, apperrors.NewSchemaSourceError(err, step)
		}

		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewSchemaSourceError(err, step)
	}

	return values, nil
}
