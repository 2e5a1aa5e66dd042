// internal/web/params_test.go

package web

import (
	"net/http/httptest"
	"testing"

	"github.com/yanizio/atlas/internal/country"
)

func TestParseSort_Defaults(t *testing.T) {
	cases := []struct {
		in    string
		field country.SortField
		desc  bool
	}{
		{"gdp", country.SortGDP, true},
		{"gdp_asc", country.SortGDP, false},
		{"gdp_desc", country.SortGDP, true},
		{"population", country.SortPopulation, true},
		{"population_asc", country.SortPopulation, false},
		{"name", country.SortName, false},
		{"name_desc", country.SortName, true},
	}
	for _, c := range cases {
		got := parseSort(c.in)
		if got == nil || got.Field != c.field || got.Desc != c.desc {
			t.Errorf("parseSort(%q) = %+v, want {%s desc=%v}", c.in, got, c.field, c.desc)
		}
	}

	if parseSort("") != nil {
		t.Error("empty sort must mean no ORDER BY")
	}
}

func TestParseListQuery_Valid(t *testing.T) {
	r := httptest.NewRequest("GET", "/countries?region=Europe&currency=eur&sort=name_desc", nil)
	f, details := parseListQuery(r)
	if details != nil {
		t.Fatalf("unexpected validation failure: %v", details)
	}
	if f.Region != "Europe" || f.Currency != "eur" {
		t.Fatalf("filter = %+v", f)
	}
	if f.Sort == nil || f.Sort.Field != country.SortName || !f.Sort.Desc {
		t.Fatalf("sort = %+v", f.Sort)
	}
}

func TestParseListQuery_BadSort(t *testing.T) {
	r := httptest.NewRequest("GET", "/countries?sort=area", nil)
	_, details := parseListQuery(r)
	if details == nil {
		t.Fatal("expected validation failure")
	}
	if _, ok := details["sort"]; !ok {
		t.Fatalf("details missing sort key: %v", details)
	}
}
