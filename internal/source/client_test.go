// internal/source/client_test.go
//
// Unit-tests for the ingestion adapter against httptest stand-ins.
//
// Run: go test ./internal/source -v

package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const catalogDoc = `[
  {"name": "Ghana", "capital": "Accra", "region": "Africa",
   "population": 31072940, "flag": "https://flagcdn.com/gh.svg",
   "currencies": [{"code": "GHS"}]},
  {"name": "Antarctica", "region": "Polar", "currencies": []}
]`

func TestFetchCountries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(catalogDoc))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)
	got, err := c.FetchCountries(context.Background())
	if err != nil {
		t.Fatalf("FetchCountries error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "Ghana" || got[0].Population == nil || *got[0].Population != 31072940 {
		t.Fatalf("unexpected first record: %+v", got[0])
	}
	// Absent population must decode to nil, not zero.
	if got[1].Population != nil {
		t.Fatalf("absent population decoded to %v", *got[1].Population)
	}
}

func TestFetchExchangeRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": "success", "rates": {"USD": 1, "GHS": 10.42}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)
	rates, err := c.FetchExchangeRates(context.Background())
	if err != nil {
		t.Fatalf("FetchExchangeRates error: %v", err)
	}
	if rates["GHS"] != 10.42 {
		t.Fatalf("GHS = %v, want 10.42", rates["GHS"])
	}
}

func TestFetch_Non200IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)

	_, err := c.FetchCountries(context.Background())
	var ua *Unavailable
	if !errors.As(err, &ua) || ua.Source != Countries {
		t.Fatalf("err = %v, want Unavailable{Countries}", err)
	}

	_, err = c.FetchExchangeRates(context.Background())
	if !errors.As(err, &ua) || ua.Source != Rates {
		t.Fatalf("err = %v, want Unavailable{Rates}", err)
	}
}

func TestFetch_TransportFailureIsUnavailable(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(srv.URL, srv.URL)
	_, err := c.FetchCountries(context.Background())
	var ua *Unavailable
	if !errors.As(err, &ua) {
		t.Fatalf("err = %v, want Unavailable", err)
	}
}

func TestFetchExchangeRates_MissingTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": "error"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL)
	if _, err := c.FetchExchangeRates(context.Background()); err == nil {
		t.Fatal("expected error for missing rates table")
	}
}
