// Package store persists translated import rows to PostgreSQL.
//
// Rows are written with the COPY protocol in a single statement, so an
// export either lands completely or not at all. Every row carries the
// import id of the Result it came from, which is also the key for rolling
// an import back.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ImportIDColumn is prepended to every table's column list.
const ImportIDColumn = "import_id"

// DBTX is the interface for database operations.
// Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Table describes where objects of type T are written.
type Table[T any] struct {
	Name    string         // Table name, unquoted
	Columns []string       // Columns in Values order, without import_id
	Values  func(*T) []any // One row of values for an object
	DDL     string         // CREATE TABLE IF NOT EXISTS statement
}

// Sink writes rows to the database.
type Sink struct {
	db     DBTX
	logger *slog.Logger
}

// NewSink creates a sink over db. A nil logger uses slog.Default().
func NewSink(db DBTX, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{db: db, logger: logger}
}

// Ensure runs each DDL statement in order.
func (s *Sink) Ensure(ctx context.Context, ddl ...string) error {
	for _, stmt := range ddl {
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure table: %w", err)
		}
	}
	return nil
}

// Copy writes items to table tagged with importID and returns the number of
// rows copied. An empty batch writes nothing.
func Copy[T any](ctx context.Context, s *Sink, table Table[T], importID uuid.UUID, items []*T) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	columns := make([]string, 0, len(table.Columns)+1)
	columns = append(columns, ImportIDColumn)
	columns = append(columns, table.Columns...)

	src := pgx.CopyFromSlice(len(items), func(i int) ([]any, error) {
		values := table.Values(items[i])
		if len(values) != len(table.Columns) {
			return nil, fmt.Errorf("%s: row %d has %d values, want %d", table.Name, i, len(values), len(table.Columns))
		}
		return append([]any{importID}, values...), nil
	})

	start := time.Now()
	n, err := s.db.CopyFrom(ctx, pgx.Identifier{table.Name}, columns, src)
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", table.Name, err)
	}

	s.logger.Info("rows copied",
		"table", table.Name,
		"import_id", importID,
		"rows", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return n, nil
}

// DeleteImport removes every row of table written by importID.
func (s *Sink) DeleteImport(ctx context.Context, table string, importID uuid.UUID) (int64, error) {
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", pgx.Identifier{table}.Sanitize(), ImportIDColumn)

	tag, err := s.db.Exec(ctx, sql, importID)
	if err != nil {
		return 0, fmt.Errorf("delete import from %s: %w", table, err)
	}

	s.logger.Info("import rolled back",
		"table", table,
		"import_id", importID,
		"rows", tag.RowsAffected(),
	)
	return tag.RowsAffected(), nil
}
