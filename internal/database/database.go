package database

import (
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS readings (
	id           BIGSERIAL PRIMARY KEY,
	meter_id     TEXT             NOT NULL,
	timestamp    TIMESTAMPTZ      NOT NULL,
	voltage      DOUBLE PRECISION NOT NULL,
	current_amps DOUBLE PRECISION NOT NULL,
	power_watts  DOUBLE PRECISION NOT NULL,
	total_kwh    DOUBLE PRECISION NOT NULL
);
CREATE INDEX IF NOT EXISTS readings_timestamp_idx ON readings (timestamp DESC);
`

func Connect(dsn string) (*sqlx.DB, error) {
	return sqlx.Connect("pgx", dsn)
}

// Open connects and makes sure the schema exists, so readers never hit a
// missing table before the first writer starts.
func Open(dsn string) (*sqlx.DB, error) {
	db, err := Connect(dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the readings table when it does not exist yet.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate readings: %w", err)
	}
	return nil
}
