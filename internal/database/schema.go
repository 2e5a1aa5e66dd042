// internal/database/schema.go
//
// Boot-time schema guard.  The service owns a single table; rather than
// shipping a migration tool for one DDL statement, EnsureSchema applies it
// idempotently on startup.  Column types mirror the original migration:
// DECIMAL(10,2) for the rate, DECIMAL(20,2) for the GDP estimate.

package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const createCountries = `
CREATE TABLE IF NOT EXISTS countries (
    id                BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    name              VARCHAR(255)    NOT NULL,
    capital           VARCHAR(255)    NULL,
    region            VARCHAR(255)    NULL,
    population        BIGINT          NOT NULL,
    currency_code     VARCHAR(16)     NULL,
    exchange_rate     DECIMAL(10,2)   NULL,
    estimated_gdp     DECIMAL(20,2)   NULL,
    flag_url          VARCHAR(512)    NULL,
    last_refreshed_at TIMESTAMP       NULL,
    PRIMARY KEY (id),
    UNIQUE KEY uq_countries_name (name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// EnsureSchema creates the countries table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, createCountries)
	return err
}
