package storage_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibhorverma24/vacation-calendar/internal/holiday"
	"github.com/vibhorverma24/vacation-calendar/internal/storage"
)

// ---- mock Querier ----

type mockQuerier struct {
	queryFn func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return m.queryFn(ctx, sql, args...)
}

// ---- mock pgx.Rows ----

type fakeRows struct {
	rows    [][]any
	idx     int
	rowErr  error
	scanErr error
}

func (f *fakeRows) Next() bool                                   { f.idx++; return f.idx <= len(f.rows) }
func (f *fakeRows) Err() error                                   { return f.rowErr }
func (f *fakeRows) Close()                                       {}
func (f *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (f *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (f *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (f *fakeRows) RawValues() [][]byte                          { return nil }
func (f *fakeRows) Conn() *pgx.Conn                              { return nil }

func (f *fakeRows) Scan(dest ...any) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	row := f.rows[f.idx-1]
	for i, d := range dest {
		if i >= len(row) {
			break
		}
		switch v := d.(type) {
		case *int:
			*v = row[i].(int)
		case *string:
			*v = row[i].(string)
		case *time.Time:
			*v = row[i].(time.Time)
		}
	}
	return nil
}

// holidayRow lays out column values in the order the repository selects them.
func holidayRow(id int, date, name, country string, year, month int, category string, ts time.Time) []any {
	return []any{id, date, name, "", country, year, month, category, ts, ts}
}

// ---- FindByCountryYear ----

func TestFindByCountryYear_Found(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	var capturedArgs []any
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
			capturedArgs = args
			return &fakeRows{rows: [][]any{
				holidayRow(1, "2024-01-26", "Republic Day", "IN", 2024, 1, "national", now),
				holidayRow(2, "2024-08-15", "Independence Day", "IN", 2024, 8, "national", now),
			}}, nil
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	got, err := repo.FindByCountryYear(context.Background(), "IN", 2024)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []any{"IN", 2024}, capturedArgs)
	assert.Equal(t, "Republic Day", got[0].Name)
	assert.Equal(t, 1, got[0].Month)
	assert.Equal(t, now, got[0].CreatedAt)
}

func TestFindByCountryYear_Empty(t *testing.T) {
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			return &fakeRows{}, nil
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	got, err := repo.FindByCountryYear(context.Background(), "IN", 2024)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindByCountryYear_QueryError(t *testing.T) {
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	_, err := repo.FindByCountryYear(context.Background(), "IN", 2024)
	require.ErrorIs(t, err, storage.ErrStoreUnavailable)
}

func TestFindByCountryYear_RowsError(t *testing.T) {
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			return &fakeRows{rowErr: fmt.Errorf("connection reset")}, nil
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	_, err := repo.FindByCountryYear(context.Background(), "IN", 2024)
	require.ErrorIs(t, err, storage.ErrStoreUnavailable)
}

// ---- FindByCountryYearMonth ----

func TestFindByCountryYearMonth_PassesMonthFilter(t *testing.T) {
	now := time.Now()
	var capturedArgs []any
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
			capturedArgs = args
			return &fakeRows{rows: [][]any{
				holidayRow(3, "2024-03-25", "Holi", "IN", 2024, 3, "national", now),
			}}, nil
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	got, err := repo.FindByCountryYearMonth(context.Background(), "IN", 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{"IN", 2024, 3}, capturedArgs)
	require.Len(t, got, 1)
	assert.Equal(t, "Holi", got[0].Name)
}

// ---- InsertMany ----

func TestInsertMany_BatchedInSingleStatement(t *testing.T) {
	now := time.Now()
	queries := 0
	var capturedArgs []any
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
			queries++
			capturedArgs = args
			return &fakeRows{rows: [][]any{
				holidayRow(1, "2024-01-26", "Republic Day", "IN", 2024, 1, "national,public", now),
				holidayRow(2, "2024-08-15", "Independence Day", "IN", 2024, 8, "national", now),
			}}, nil
		},
	}

	records := []holiday.Holiday{
		{Date: "2024-01-26", Name: "Republic Day", Country: "IN", Year: 2024, Month: 1, Category: "national,public"},
		{Date: "2024-08-15", Name: "Independence Day", Country: "IN", Year: 2024, Month: 8, Category: "national"},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	got, err := repo.InsertMany(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 1, queries, "the whole batch goes in one statement")

	require.Len(t, capturedArgs, 7)
	assert.Equal(t, []string{"2024-01-26", "2024-08-15"}, capturedArgs[0])
	assert.Equal(t, []string{"Republic Day", "Independence Day"}, capturedArgs[1])
	assert.Equal(t, []string{"IN", "IN"}, capturedArgs[3])
	assert.Equal(t, []int{2024, 2024}, capturedArgs[4])
	assert.Equal(t, []int{1, 8}, capturedArgs[5])

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID, "returned records carry store-assigned ids")
	assert.Equal(t, now, got[0].CreatedAt)
}

func TestInsertMany_EmptyBatch_NoQuery(t *testing.T) {
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			t.Fatal("no query should run for an empty batch")
			return nil, nil
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	got, err := repo.InsertMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInsertMany_QueryError(t *testing.T) {
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			return nil, fmt.Errorf("server closed the connection")
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	_, err := repo.InsertMany(context.Background(), []holiday.Holiday{
		{Date: "2024-01-26", Name: "Republic Day", Country: "IN", Year: 2024, Month: 1},
	})
	require.ErrorIs(t, err, storage.ErrStoreUnavailable)
}

// ---- migrations ----

type mockMigrationPool struct {
	beginFn func(ctx context.Context) (pgx.Tx, error)
}

func (m *mockMigrationPool) Begin(ctx context.Context) (pgx.Tx, error) {
	return m.beginFn(ctx)
}

// mockTx is a minimal pgx.Tx implementation for testing migrations.
type mockTx struct {
	execFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	commitFn   func(ctx context.Context) error
	rollbackFn func(ctx context.Context) error
}

func (t *mockTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.execFn(ctx, sql, args...)
}
func (t *mockTx) Commit(ctx context.Context) error   { return t.commitFn(ctx) }
func (t *mockTx) Rollback(ctx context.Context) error { return t.rollbackFn(ctx) }

// pgx.Tx has many more methods — stub them all out.
func (t *mockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (t *mockTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *mockTx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }
func (t *mockTx) LargeObjects() pgx.LargeObjects                             { return pgx.LargeObjects{} }
func (t *mockTx) Prepare(_ context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *mockTx) Conn() *pgx.Conn { return nil }

func writeSQLFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRunMigrations_AppliesFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeSQLFile(t, dir, "002_indexes.sql", "CREATE INDEX two;")
	writeSQLFile(t, dir, "001_create.sql", "CREATE TABLE one;")
	writeSQLFile(t, dir, "notes.txt", "ignored")

	var executed []string
	pool := &mockMigrationPool{
		beginFn: func(_ context.Context) (pgx.Tx, error) {
			return &mockTx{
				execFn: func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
					executed = append(executed, sql)
					return pgconn.CommandTag{}, nil
				},
				commitFn:   func(_ context.Context) error { return nil },
				rollbackFn: func(_ context.Context) error { return nil },
			}, nil
		},
	}

	require.NoError(t, storage.RunMigrations(context.Background(), pool, dir))
	require.Equal(t, []string{"CREATE TABLE one;", "CREATE INDEX two;"}, executed)
}

func TestRunMigrations_RollsBackOnFailure(t *testing.T) {
	dir := t.TempDir()
	writeSQLFile(t, dir, "001_bad.sql", "BROKEN SQL;")

	rolledBack := false
	pool := &mockMigrationPool{
		beginFn: func(_ context.Context) (pgx.Tx, error) {
			return &mockTx{
				execFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
					return pgconn.CommandTag{}, fmt.Errorf("syntax error")
				},
				commitFn: func(_ context.Context) error { return nil },
				rollbackFn: func(_ context.Context) error {
					rolledBack = true
					return nil
				},
			}, nil
		},
	}

	err := storage.RunMigrations(context.Background(), pool, dir)
	require.Error(t, err)
	assert.True(t, rolledBack)
}

func TestRunMigrations_MissingDir(t *testing.T) {
	err := storage.RunMigrations(context.Background(), &mockMigrationPool{}, "does-not-exist")
	require.Error(t, err)
}
