package country

import "time"

// Record mirrors one row in the persistent `countries` table.  Nullable
// columns use pointer fields so JSON output renders them as `null`, which
// keeps the wire shape identical for "unknown rate" (null) versus "no
// currency at all" (explicit zero GDP).
type Record struct {
	ID            uint64     `db:"id"                json:"id"`
	Name          string     `db:"name"              json:"name"`
	Capital       *string    `db:"capital"           json:"capital"`
	Region        *string    `db:"region"            json:"region"`
	Population    int64      `db:"population"        json:"population"`
	CurrencyCode  *string    `db:"currency_code"     json:"currency_code"`
	ExchangeRate  *float64   `db:"exchange_rate"     json:"exchange_rate"`
	EstimatedGDP  *float64   `db:"estimated_gdp"     json:"estimated_gdp"`
	FlagURL       *string    `db:"flag_url"          json:"flag_url"`
	LastRefreshed *time.Time `db:"last_refreshed_at" json:"last_refreshed_at"`
}

// Payload is one enrichment result, ready to be upserted.  It carries no ID;
// the upsert decides whether it lands as an INSERT or an UPDATE.
type Payload struct {
	Name          string
	Capital       *string
	Region        *string
	Population    int64
	CurrencyCode  *string
	ExchangeRate  *float64
	EstimatedGDP  *float64
	FlagURL       *string
	LastRefreshed time.Time
}

// Status is the aggregate exposed on GET /countries/status.
type Status struct {
	Total         int64      `db:"total"`
	LastRefreshed *time.Time `db:"last"`
}

// SortField enumerates the sortable columns.
type SortField string

const (
	SortGDP        SortField = "gdp"
	SortPopulation SortField = "population"
	SortName       SortField = "name"
)

// Sort pairs a field with a direction.  DefaultDesc per field is decided by
// the query parser, not here.
type Sort struct {
	Field SortField
	Desc  bool
}

// Filter narrows List results.  Empty strings mean "no constraint"; both
// filters are case-insensitive equality and AND-combined.  A nil Sort means
// no ORDER BY is applied (storage order).
type Filter struct {
	Region   string
	Currency string
	Sort     *Sort
}
