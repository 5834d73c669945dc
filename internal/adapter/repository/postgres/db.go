package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=fuelstation sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// schema creates the tables on a fresh database. Stock and prices are NUMERIC
// so decimal arithmetic survives the round trip; transactions are append-only
// with a BIGSERIAL primary key, which gives the monotonic transaction IDs the
// workflow relies on.
const schema = `
CREATE TABLE IF NOT EXISTS fuel_types (
	id        BIGSERIAL PRIMARY KEY,
	fuel_name TEXT NOT NULL UNIQUE,
	price     NUMERIC NOT NULL CHECK (price >= 0)
);

CREATE TABLE IF NOT EXISTS stations (
	id            BIGSERIAL PRIMARY KEY,
	fuel_type_id  BIGINT NOT NULL REFERENCES fuel_types (id),
	fuel_quantity NUMERIC NOT NULL CHECK (fuel_quantity >= 0),
	active        BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	id           BIGSERIAL PRIMARY KEY,
	number       TEXT NOT NULL,
	station_id   BIGINT NOT NULL,
	fuel_type_id BIGINT NOT NULL REFERENCES fuel_types (id),
	quantity     NUMERIC NOT NULL CHECK (quantity > 0),
	unit_price   NUMERIC NOT NULL,
	total_price  NUMERIC NOT NULL,
	date         TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_station ON transactions (station_id);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions (date);
CREATE INDEX IF NOT EXISTS idx_transactions_fuel_type ON transactions (fuel_type_id);
`

// InitSchema creates the tables if they do not exist yet
func (db *DB) InitSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
