// internal/country/repository.go
//
// Countries-table persistence gateway.
//
// Context
// -------
// The countries table is the single piece of shared state in the service.
// All reads and writes go through Repo so the rest of the code never builds
// SQL.  Name matching is case-insensitive everywhere (upsert key, lookup,
// and delete) so a refresh cycle can never seed a duplicate row that a
// later lookup would miss.
//
// Workflow
// --------
//  1. Callers construct one Repo over the process-wide *sqlx.DB.
//  2. Each method executes parameterised statements; no ORM layer.
//  3. Rows scan into `country.Record`, which mirrors the schema.
//  4. Absent rows surface as ErrNotFound so handlers can map to 404 without
//     driver-specific checks.
package country

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a name has no matching row.
var ErrNotFound = errors.New("country not found")

const columns = `id, name, capital, region, population, currency_code,
               exchange_rate, estimated_gdp, flag_url, last_refreshed_at`

// Repo is the single owner of the countries table.
type Repo struct {
	db *sqlx.DB
}

// New returns a Repo bound to db.
func New(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

// UpsertByName inserts the payload, or updates the existing row whose name
// matches case-insensitively.  Row identity (id) is preserved on update.
func (r *Repo) UpsertByName(ctx context.Context, p Payload) error {
	var id uint64
	err := r.db.GetContext(ctx, &id,
		`SELECT id FROM countries WHERE LOWER(name) = LOWER(?) LIMIT 1`, p.Name)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = r.db.ExecContext(ctx, `
            INSERT INTO countries
                   (name, capital, region, population, currency_code,
                    exchange_rate, estimated_gdp, flag_url, last_refreshed_at)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Name, p.Capital, p.Region, p.Population, p.CurrencyCode,
			p.ExchangeRate, p.EstimatedGDP, p.FlagURL, p.LastRefreshed)
		if err != nil {
			return fmt.Errorf("insert %q: %w", p.Name, err)
		}
		return nil

	case err != nil:
		return fmt.Errorf("upsert lookup %q: %w", p.Name, err)

	default:
		_, err = r.db.ExecContext(ctx, `
            UPDATE countries
               SET name = ?, capital = ?, region = ?, population = ?,
                   currency_code = ?, exchange_rate = ?, estimated_gdp = ?,
                   flag_url = ?, last_refreshed_at = ?
             WHERE id = ?`,
			p.Name, p.Capital, p.Region, p.Population, p.CurrencyCode,
			p.ExchangeRate, p.EstimatedGDP, p.FlagURL, p.LastRefreshed, id)
		if err != nil {
			return fmt.Errorf("update %q: %w", p.Name, err)
		}
		return nil
	}
}

// List returns records narrowed by f.  No ORDER BY is applied when f.Sort
// is nil; storage order is implementation-defined but stable.
func (r *Repo) List(ctx context.Context, f Filter) ([]Record, error) {
	q := `SELECT ` + columns + ` FROM countries`

	var conds []string
	var args []any
	if f.Region != "" {
		conds = append(conds, `LOWER(region) = LOWER(?)`)
		args = append(args, f.Region)
	}
	if f.Currency != "" {
		conds = append(conds, `LOWER(currency_code) = LOWER(?)`)
		args = append(args, f.Currency)
	}
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, ` AND `)
	}

	if f.Sort != nil {
		col, ok := sortColumn(f.Sort.Field)
		if !ok {
			return nil, fmt.Errorf("unknown sort field %q", f.Sort.Field)
		}
		dir := "ASC"
		if f.Sort.Desc {
			dir = "DESC"
		}
		q += ` ORDER BY ` + col + ` ` + dir
	}

	rows := make([]Record, 0, 256)
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByName fetches a single record, matching the name case-insensitively.
func (r *Repo) FindByName(ctx context.Context, name string) (*Record, error) {
	const q = `SELECT ` + columns + `
        FROM   countries
        WHERE  LOWER(name) = LOWER(?)
        LIMIT  1`
	var rec Record
	if err := r.db.GetContext(ctx, &rec, q, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Remove deletes the record whose name matches case-insensitively.
func (r *Repo) Remove(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM countries WHERE LOWER(name) = LOWER(?)`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Status returns the record count and the most recent refresh timestamp.
// MAX over an empty table yields NULL, which scans into a nil pointer.
func (r *Repo) Status(ctx context.Context) (Status, error) {
	const q = `SELECT COUNT(*) AS total, MAX(last_refreshed_at) AS last
        FROM countries`
	var st Status
	if err := r.db.GetContext(ctx, &st, q); err != nil {
		return Status{}, err
	}
	return st, nil
}

// TopByGDP returns the n records with the highest estimated GDP.  MySQL
// sorts NULLs last in DESC order, so unresolved records never crowd out
// real figures.
func (r *Repo) TopByGDP(ctx context.Context, n int) ([]Record, error) {
	const q = `SELECT ` + columns + `
        FROM     countries
        ORDER BY estimated_gdp DESC
        LIMIT    ?`
	rows := make([]Record, 0, n)
	if err := r.db.SelectContext(ctx, &rows, q, n); err != nil {
		return nil, err
	}
	return rows, nil
}

// sortColumn maps the public sort field onto its column.
func sortColumn(f SortField) (string, bool) {
	switch f {
	case SortGDP:
		return "estimated_gdp", true
	case SortPopulation:
		return "population", true
	case SortName:
		return "name", true
	}
	return "", false
}
