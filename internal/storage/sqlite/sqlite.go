// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/eventbook/internal/models"
	"github.com/mmynk/eventbook/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	events    *table[models.Event]
	lines     *table[models.ServiceLine]
	payments  *table[models.Payment]
	services  *table[models.Service]
	packages  *table[models.Package]
	suppliers *table[models.Supplier]
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; concurrent batch writes queue on one connection.
	db.SetMaxOpenConns(1)

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{
		db:        db,
		events:    newEventTable(db),
		lines:     newServiceLineTable(db),
		payments:  newPaymentTable(db),
		services:  newServiceTable(db),
		packages:  newPackageTable(db),
		suppliers: newSupplierTable(db),
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Events() storage.Collection[models.Event]             { return s.events }
func (s *SQLiteStore) ServiceLines() storage.Collection[models.ServiceLine] { return s.lines }
func (s *SQLiteStore) Payments() storage.Collection[models.Payment]         { return s.payments }
func (s *SQLiteStore) Services() storage.Collection[models.Service]         { return s.services }
func (s *SQLiteStore) Packages() storage.Collection[models.Package]         { return s.packages }
func (s *SQLiteStore) Suppliers() storage.Collection[models.Supplier]       { return s.suppliers }

// encodeJSON serializes a nested record for a JSON column.
func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode column: %w", err)
	}
	return string(b), nil
}

// decodeJSON parses a JSON column into v, leaving v untouched when empty.
func decodeJSON(raw string, v any) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to decode column: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, raw)
}

func nullAmount(a *models.Amount) sql.NullFloat64 {
	if a == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: a.Float(), Valid: true}
}

func amountFromNull(v sql.NullFloat64) *models.Amount {
	if !v.Valid {
		return nil
	}
	return models.AmountPtr(v.Float64)
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func boolFromNull(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	return models.BoolPtr(v.Bool)
}
