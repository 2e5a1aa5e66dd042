// internal/refresh/enrich_test.go
//
// Unit-tests for the enrichment derivation.  The multiplier source is
// pinned through the uniform seam, never fought with retries.
//
// Run: go test ./internal/refresh -v

package refresh

import (
	"math"
	"testing"
	"time"

	"github.com/yanizio/atlas/internal/source"
)

var testNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func rawGhana() source.RawCountry {
	pop := int64(31072940)
	return source.RawCountry{
		Name:       "Ghana",
		Capital:    "Accra",
		Region:     "Africa",
		Population: &pop,
		Flag:       "https://flagcdn.com/gh.svg",
		Currencies: []source.Currency{{Code: "GHS"}},
	}
}

func TestEnrich_KnownRate(t *testing.T) {
	rates := map[string]float64{"GHS": 10.0}
	pinned := func() float64 { return 0.5 } // multiplier = 1500

	p, gap := Enrich(rawGhana(), rates, testNow, pinned)
	if gap {
		t.Fatal("unexpected enrichment gap")
	}
	if p.CurrencyCode == nil || *p.CurrencyCode != "GHS" {
		t.Fatalf("currency code = %v", p.CurrencyCode)
	}
	if p.ExchangeRate == nil || *p.ExchangeRate != 10.0 {
		t.Fatalf("exchange rate = %v", p.ExchangeRate)
	}
	want := float64(31072940) * 1500 / 10.0
	if p.EstimatedGDP == nil || *p.EstimatedGDP != want {
		t.Fatalf("estimated gdp = %v, want %v", p.EstimatedGDP, want)
	}
	if !p.LastRefreshed.Equal(testNow) {
		t.Fatalf("last refreshed = %v", p.LastRefreshed)
	}
}

func TestEnrich_MultiplierStaysInRange(t *testing.T) {
	rates := map[string]float64{"GHS": 10.0}
	pop := float64(31072940)
	lo, hi := pop*1000/10.0, pop*2000/10.0

	for _, u := range []float64{0, 0.25, 0.5, 0.75, 0.999999} {
		u := u
		p, _ := Enrich(rawGhana(), rates, testNow, func() float64 { return u })
		gdp := *p.EstimatedGDP
		if math.IsNaN(gdp) || math.IsInf(gdp, 0) || gdp < 0 {
			t.Fatalf("gdp not finite non-negative: %v", gdp)
		}
		if gdp < lo || gdp >= hi {
			t.Fatalf("gdp %v outside [%v, %v)", gdp, lo, hi)
		}
	}
}

func TestEnrich_UnknownRateLeavesNulls(t *testing.T) {
	p, gap := Enrich(rawGhana(), map[string]float64{"USD": 1}, testNow, func() float64 { return 0 })
	if !gap {
		t.Fatal("expected enrichment gap")
	}
	if p.ExchangeRate != nil || p.EstimatedGDP != nil {
		t.Fatalf("rate = %v, gdp = %v, want both nil", p.ExchangeRate, p.EstimatedGDP)
	}
	if p.CurrencyCode == nil || *p.CurrencyCode != "GHS" {
		t.Fatalf("currency code = %v, want GHS retained", p.CurrencyCode)
	}
}

func TestEnrich_ZeroRateIsAGap(t *testing.T) {
	// A table entry of 0 (or below) is unresolved, not a divisor: the
	// estimate must stay null rather than going to +Inf.
	for _, rate := range []float64{0, -3.5} {
		p, gap := Enrich(rawGhana(), map[string]float64{"GHS": rate}, testNow,
			func() float64 { return 0.5 })
		if !gap {
			t.Fatalf("rate %v: expected enrichment gap", rate)
		}
		if p.ExchangeRate != nil || p.EstimatedGDP != nil {
			t.Fatalf("rate %v: rate = %v, gdp = %v, want both nil",
				rate, p.ExchangeRate, p.EstimatedGDP)
		}
		if p.CurrencyCode == nil || *p.CurrencyCode != "GHS" {
			t.Fatalf("rate %v: currency code = %v, want GHS retained", rate, p.CurrencyCode)
		}
	}
}

func TestEnrich_EmptyCurrencyCodeMeansZeroGDP(t *testing.T) {
	// A currency entry without a code resolves like an empty list: null
	// code, null rate, explicit zero estimate.
	raw := rawGhana()
	raw.Currencies = []source.Currency{{}}

	p, gap := Enrich(raw, map[string]float64{"GHS": 10}, testNow, func() float64 { return 0 })
	if gap {
		t.Fatal("codeless currency entry is not a gap")
	}
	if p.CurrencyCode != nil || p.ExchangeRate != nil {
		t.Fatalf("code = %v, rate = %v, want both nil", p.CurrencyCode, p.ExchangeRate)
	}
	if p.EstimatedGDP == nil || *p.EstimatedGDP != 0 {
		t.Fatalf("gdp = %v, want explicit 0", p.EstimatedGDP)
	}
}

func TestEnrich_NoCurrencyMeansZeroGDP(t *testing.T) {
	raw := rawGhana()
	raw.Currencies = nil

	p, gap := Enrich(raw, map[string]float64{"GHS": 10}, testNow, func() float64 { return 0 })
	if gap {
		t.Fatal("no-currency record is not a gap")
	}
	if p.CurrencyCode != nil || p.ExchangeRate != nil {
		t.Fatalf("code = %v, rate = %v, want both nil", p.CurrencyCode, p.ExchangeRate)
	}
	// Zero is explicit, not null.
	if p.EstimatedGDP == nil || *p.EstimatedGDP != 0 {
		t.Fatalf("gdp = %v, want explicit 0", p.EstimatedGDP)
	}
}

func TestEnrich_EmptyOptionalFieldsBecomeNull(t *testing.T) {
	raw := rawGhana()
	raw.Capital, raw.Region, raw.Flag = "", "", ""

	p, _ := Enrich(raw, map[string]float64{"GHS": 10}, testNow, func() float64 { return 0 })
	if p.Capital != nil || p.Region != nil || p.FlagURL != nil {
		t.Fatalf("optional fields not nulled: %+v", p)
	}
}
