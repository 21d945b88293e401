package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	driver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/eventbook/internal/storage"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// table implements storage.Collection for one entity type. The first column
// is always the id.
type table[T any] struct {
	db      *sql.DB
	name    string
	columns []string
	orderBy string
	filters []string

	// id returns the record's persisted id, empty if it has none.
	id func(T) string
	// withID returns the record carrying the given id.
	withID func(T, string) T
	// values returns the column values after the id, in column order.
	values func(T) ([]any, error)
	scan   func(scanner) (T, error)
	// prepare validates and fills defaults before a write. Optional.
	prepare func(T) (T, error)
}

var _ storage.Collection[struct{}] = (*table[struct{}])(nil)

func (t *table[T]) selectSQL() string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(t.columns, ", "), t.name)
}

// List returns every record.
func (t *table[T]) List(ctx context.Context) ([]T, error) {
	return t.query(ctx, t.selectSQL()+" ORDER BY "+t.orderBy)
}

// Filter returns records matching every filter field.
func (t *table[T]) Filter(ctx context.Context, filter storage.Filter) ([]T, error) {
	fields := make([]string, 0, len(filter))
	for field := range filter {
		if !slices.Contains(t.filters, field) {
			return nil, fmt.Errorf("%w: %s.%s", storage.ErrUnknownFilter, t.name, field)
		}
		fields = append(fields, field)
	}
	slices.Sort(fields)

	query := t.selectSQL()
	args := make([]any, 0, len(fields))
	if len(fields) > 0 {
		conditions := make([]string, len(fields))
		for i, field := range fields {
			conditions[i] = field + " = ?"
			args = append(args, filter[field])
		}
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	return t.query(ctx, query+" ORDER BY "+t.orderBy, args...)
}

// Get retrieves a record by id.
func (t *table[T]) Get(ctx context.Context, id string) (T, error) {
	record, err := t.scan(t.db.QueryRowContext(ctx, t.selectSQL()+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, fmt.Errorf("%w: %s %s", storage.ErrNotFound, t.name, id)
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to get %s: %w", t.name, err)
	}
	return record, nil
}

// Create persists a new record, generating an id if it has none.
func (t *table[T]) Create(ctx context.Context, record T) (T, error) {
	record, args, err := t.insertArgs(record)
	if err != nil {
		return record, err
	}
	if _, err := t.db.ExecContext(ctx, t.insertSQL(), args...); err != nil {
		return record, t.insertError(err, args[0])
	}
	return record, nil
}

// insertError maps a primary key violation to storage.ErrAlreadyExists.
func (t *table[T]) insertError(err error, id any) error {
	var sqliteErr *driver.Error
	if errors.As(err, &sqliteErr) {
		switch code := sqliteErr.Code(); {
		case code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
			code == sqlite3.SQLITE_CONSTRAINT_UNIQUE,
			code == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed"):
			return fmt.Errorf("%w: %s %v", storage.ErrAlreadyExists, t.name, id)
		}
	}
	return fmt.Errorf("failed to insert %s: %w", t.name, err)
}

// BulkCreate inserts all records in one transaction.
func (t *table[T]) BulkCreate(ctx context.Context, records []T) ([]T, error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, t.insertSQL())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	created := make([]T, 0, len(records))
	for _, record := range records {
		record, args, err := t.insertArgs(record)
		if err != nil {
			return nil, err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return nil, t.insertError(err, args[0])
		}
		created = append(created, record)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// Update replaces the stored record with the given id.
func (t *table[T]) Update(ctx context.Context, id string, record T) (T, error) {
	record = t.withID(record, id)
	if t.prepare != nil {
		var err error
		if record, err = t.prepare(record); err != nil {
			return record, err
		}
	}
	values, err := t.values(record)
	if err != nil {
		return record, err
	}

	assignments := make([]string, len(t.columns)-1)
	for i, column := range t.columns[1:] {
		assignments[i] = column + " = ?"
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", t.name, strings.Join(assignments, ", "))

	res, err := t.db.ExecContext(ctx, query, append(values, id)...)
	if err != nil {
		return record, fmt.Errorf("failed to update %s: %w", t.name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return record, fmt.Errorf("%w: %s %s", storage.ErrNotFound, t.name, id)
	}
	return record, nil
}

// Delete removes a record by id.
func (t *table[T]) Delete(ctx context.Context, id string) error {
	res, err := t.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.name), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", t.name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s %s", storage.ErrNotFound, t.name, id)
	}
	return nil
}

func (t *table[T]) insertSQL() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, strings.Join(t.columns, ", "), placeholders)
}

func (t *table[T]) insertArgs(record T) (T, []any, error) {
	// Generate ID if not set
	if t.id(record) == "" {
		record = t.withID(record, uuid.New().String())
	}
	if t.prepare != nil {
		var err error
		if record, err = t.prepare(record); err != nil {
			return record, nil, err
		}
	}
	values, err := t.values(record)
	if err != nil {
		return record, nil, err
	}
	return record, append([]any{t.id(record)}, values...), nil
}

func (t *table[T]) query(ctx context.Context, query string, args ...any) ([]T, error) {
	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t.name, err)
	}
	defer rows.Close()

	var records []T
	for rows.Next() {
		record, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", t.name, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", t.name, err)
	}
	return records, nil
}
