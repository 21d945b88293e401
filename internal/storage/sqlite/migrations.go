package sqlite

import "database/sql"

// schema sets up the database. It runs on startup so tables always exist.
// Nested line records (supplier maps, transport units) are JSON columns.
const schema = `
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    event_date TEXT NOT NULL,
    guest_count INTEGER NOT NULL DEFAULT 0,
    all_inclusive INTEGER NOT NULL DEFAULT 0,
    all_inclusive_price REAL NOT NULL DEFAULT 0,
    all_inclusive_includes_vat INTEGER NOT NULL DEFAULT 0,
    total_override REAL,
    total_override_includes_vat INTEGER,
    discount_amount REAL NOT NULL DEFAULT 0,
    discount_before_vat INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS service_lines (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL,
    service_id TEXT NOT NULL DEFAULT '',
    custom_price REAL,
    quantity INTEGER NOT NULL DEFAULT 1,
    includes_vat INTEGER,
    order_index REAL NOT NULL DEFAULT 0,
    is_package_main_item INTEGER NOT NULL DEFAULT 0,
    parent_line_id TEXT NOT NULL DEFAULT '',
    package_id TEXT NOT NULL DEFAULT '',
    package_name TEXT NOT NULL DEFAULT '',
    package_description TEXT NOT NULL DEFAULT '',
    package_price REAL,
    package_includes_vat INTEGER,
    supplier_ids TEXT NOT NULL DEFAULT '[]',
    supplier_statuses TEXT NOT NULL DEFAULT '{}',
    supplier_notes TEXT NOT NULL DEFAULT '{}',
    min_suppliers INTEGER NOT NULL DEFAULT 0,
    client_notes TEXT NOT NULL DEFAULT '',
    transport_units TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL,
    amount REAL NOT NULL,
    payment_date TEXT NOT NULL,
    method TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS services (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    base_price REAL NOT NULL DEFAULT 0,
    default_includes_vat INTEGER NOT NULL DEFAULT 0,
    default_min_suppliers INTEGER NOT NULL DEFAULT 0,
    default_order_index REAL NOT NULL DEFAULT 0,
    category TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS packages (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    package_price REAL NOT NULL DEFAULT 0,
    package_includes_vat INTEGER NOT NULL DEFAULT 0,
    service_ids TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS suppliers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    phone TEXT NOT NULL DEFAULT '',
    emails TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_service_lines_event_id ON service_lines(event_id);
CREATE INDEX IF NOT EXISTS idx_payments_event_id ON payments(event_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
