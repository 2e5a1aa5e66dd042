// internal/refresh/enrich.go
//
// Per-record enrichment: currency resolution, exchange-rate lookup, and the
// estimated-GDP derivation.
//
// Context
// -------
// The estimate is deliberately non-deterministic: each refresh draws a
// multiplier uniformly from [1000, 2000) per record, so two cycles over
// identical upstream data produce different GDP figures.  That is the
// documented product behavior, not noise; callers inject the uniform source
// so tests can pin it.
//
// The three enrichment branches:
//
//   currency resolved, usable rate   → rate set, GDP = population * m / rate
//   currency resolved, rate missing
//   or non-positive                  → rate null, GDP null (enrichment gap)
//   no currency code listed          → rate null, GDP exactly 0
//
// A zero or negative table entry counts as unresolved: dividing by it would
// yield a non-finite or negative estimate.  A currency entry with an empty
// code counts as no currency at all.
package refresh

import (
	"time"

	"github.com/yanizio/atlas/internal/country"
	"github.com/yanizio/atlas/internal/source"
)

// Enrich turns one raw catalog record into an upsert payload.  uniform must
// return values in [0, 1).  The returned gap flag is true when the record's
// currency had no entry in the rate table.
//
// The caller must have rejected records with a nil Population already;
// Enrich treats that as an impossible input and would derive from zero.
func Enrich(raw source.RawCountry, rates map[string]float64, now time.Time, uniform func() float64) (country.Payload, bool) {
	p := country.Payload{
		Name:          raw.Name,
		Capital:       optional(raw.Capital),
		Region:        optional(raw.Region),
		FlagURL:       optional(raw.Flag),
		LastRefreshed: now,
	}
	if raw.Population != nil {
		p.Population = *raw.Population
	}

	code := firstCurrencyCode(raw.Currencies)
	if code == "" {
		// No currency at all: explicit zero, distinct from "unknown".
		zero := 0.0
		p.EstimatedGDP = &zero
		return p, false
	}
	p.CurrencyCode = &code

	rate, ok := rates[code]
	if !ok || rate <= 0 {
		// Rate table has no usable entry: leave both fields null.
		return p, true
	}

	m := 1000 + uniform()*1000 // uniform draw from [1000, 2000)
	gdp := float64(p.Population) * m / rate
	p.ExchangeRate = &rate
	p.EstimatedGDP = &gdp
	return p, false
}

// firstCurrencyCode resolves the record's primary currency: the code of the
// first list entry.  An empty list, or a first entry with no code, both mean
// "no currency".
func firstCurrencyCode(currencies []source.Currency) string {
	if len(currencies) == 0 {
		return ""
	}
	return currencies[0].Code
}

// optional maps an empty upstream string to a NULL column.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
