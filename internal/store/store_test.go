package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB records statements and drains copy sources.
type fakeDB struct {
	execs   []string
	args    [][]any
	table   pgx.Identifier
	columns []string
	rows    [][]any
	tag     pgconn.CommandTag
	err     error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	f.args = append(f.args, args)
	return f.tag, f.err
}

func (f *fakeDB) CopyFrom(_ context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.table = table
	f.columns = columns
	for src.Next() {
		values, err := src.Values()
		if err != nil {
			return 0, err
		}
		f.rows = append(f.rows, values)
	}
	if err := src.Err(); err != nil {
		return 0, err
	}
	return int64(len(f.rows)), nil
}

type item struct {
	Name  string
	Price float64
}

var itemTable = Table[item]{
	Name:    "items",
	Columns: []string{"name", "price"},
	Values:  func(it *item) []any { return []any{it.Name, it.Price} },
	DDL:     "CREATE TABLE IF NOT EXISTS items (import_id uuid, name text, price numeric)",
}

func TestCopy(t *testing.T) {
	db := &fakeDB{}
	sink := NewSink(db, nil)
	id := uuid.New()

	n, err := Copy(context.Background(), sink, itemTable, id, []*item{
		{Name: "Widget", Price: 9.99},
		{Name: "Gadget", Price: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), n)
	assert.Equal(t, pgx.Identifier{"items"}, db.table)
	assert.Equal(t, []string{"import_id", "name", "price"}, db.columns)
	assert.Equal(t, []any{id, "Widget", 9.99}, db.rows[0])
	assert.Equal(t, []any{id, "Gadget", 1.0}, db.rows[1])
}

func TestCopy_EmptyBatch(t *testing.T) {
	db := &fakeDB{err: errors.New("must not be called")}

	n, err := Copy(context.Background(), NewSink(db, nil), itemTable, uuid.New(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCopy_ValueCountMismatch(t *testing.T) {
	bad := itemTable
	bad.Values = func(it *item) []any { return []any{it.Name} }

	_, err := Copy(context.Background(), NewSink(&fakeDB{}, nil), bad, uuid.New(), []*item{{Name: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has 1 values, want 2")
}

func TestCopy_WrapsDatabaseError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23502"}
	db := &fakeDB{err: pgErr}

	_, err := Copy(context.Background(), NewSink(db, nil), itemTable, uuid.New(), []*item{{Name: "x"}})

	var got *pgconn.PgError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, "23502", got.Code)
	assert.Contains(t, err.Error(), "copy into items")
}

func TestSink_Ensure(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, NewSink(db, nil).Ensure(context.Background(), itemTable.DDL, "", "SELECT 1"))
	assert.Equal(t, []string{itemTable.DDL, "SELECT 1"}, db.execs)

	db.err = errors.New("permission denied")
	err := NewSink(db, nil).Ensure(context.Background(), itemTable.DDL)
	assert.ErrorContains(t, err, "ensure table: permission denied")
}

func TestSink_DeleteImport(t *testing.T) {
	db := &fakeDB{tag: pgconn.NewCommandTag("DELETE 3")}
	id := uuid.New()

	n, err := NewSink(db, nil).DeleteImport(context.Background(), "items", id)
	require.NoError(t, err)

	assert.Equal(t, int64(3), n)
	require.Len(t, db.execs, 1)
	assert.Equal(t, `DELETE FROM "items" WHERE import_id = $1`, db.execs[0])
	assert.Equal(t, []any{id}, db.args[0])
}
