// internal/source/client.go
//
// Ingestion adapter for the two upstream data sources.
//
// Context
// -------
// A refresh cycle needs two documents: the public countries catalog and the
// USD exchange-rate table.  Each fetch is a single bounded attempt (15
// seconds, no retry) because the cycle either applies a complete snapshot or
// nothing at all.  Transport failures, timeouts, and non-200 responses all
// collapse into *Unavailable, which names the source that failed so the
// HTTP edge can report it.
//
// Notes
// -----
// • The catalog URL carries a field list so the upstream payload stays
//   small; the adapter only decodes the fields it maps.
// • Decoding is strict about shape, not content: a record with a missing
//   population is passed through and left for the enrichment engine to
//   reject.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// FetchTimeout bounds each upstream attempt.
const FetchTimeout = 15 * time.Second

// Source labels used in Unavailable errors and refresh failure bodies.
const (
	Countries = "Countries API"
	Rates     = "Exchange Rate API"
)

// Unavailable is returned for any failure talking to an upstream source.
type Unavailable struct {
	Source string
	Err    error
}

func (e *Unavailable) Error() string {
	return fmt.Sprintf("external data source unavailable: %s: %v", e.Source, e.Err)
}

func (e *Unavailable) Unwrap() error { return e.Err }

// RawCountry is one catalog entry, pre-enrichment.  Population is a pointer
// so "absent" is distinguishable from a genuine zero.
type RawCountry struct {
	Name       string     `json:"name"`
	Capital    string     `json:"capital"`
	Region     string     `json:"region"`
	Population *int64     `json:"population"`
	Flag       string     `json:"flag"`
	Currencies []Currency `json:"currencies"`
}

// Currency is the slice element of a catalog entry's currency list.  Only
// the code matters to enrichment.
type Currency struct {
	Code string `json:"code"`
}

// ratesDoc is the exchange-rate response envelope; rates are units of
// currency per 1 USD.
type ratesDoc struct {
	Rates map[string]float64 `json:"rates"`
}

// Client fetches from both sources with a shared bounded http.Client.
type Client struct {
	http         *http.Client
	countriesURL string
	ratesURL     string
}

// NewClient returns a Client for the given endpoints.
func NewClient(countriesURL, ratesURL string) *Client {
	return &Client{
		http:         &http.Client{Timeout: FetchTimeout},
		countriesURL: countriesURL,
		ratesURL:     ratesURL,
	}
}

// FetchCountries pulls the raw catalog.
func (c *Client) FetchCountries(ctx context.Context) ([]RawCountry, error) {
	var out []RawCountry
	if err := c.getJSON(ctx, c.countriesURL, &out); err != nil {
		return nil, &Unavailable{Source: Countries, Err: err}
	}
	return out, nil
}

// FetchExchangeRates pulls the currency→USD rate table.
func (c *Client) FetchExchangeRates(ctx context.Context) (map[string]float64, error) {
	var doc ratesDoc
	if err := c.getJSON(ctx, c.ratesURL, &doc); err != nil {
		return nil, &Unavailable{Source: Rates, Err: err}
	}
	if doc.Rates == nil {
		return nil, &Unavailable{Source: Rates, Err: fmt.Errorf("response missing rates table")}
	}
	return doc.Rates, nil
}

// getJSON performs one GET and decodes the body into v.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
