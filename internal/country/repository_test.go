// internal/country/repository_test.go
//
// Unit-tests for the countries repository using sqlmock.
//
// Run: go test ./internal/country -v

package country

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMock(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "sqlmock")), mock
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestUpsertByName_InsertWhenAbsent(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id FROM countries WHERE LOWER(name) = LOWER(?) LIMIT 1`)).
		WithArgs("Ghana").
		WillReturnError(sql.ErrNoRows)

	mock.ExpectExec("INSERT INTO countries").
		WithArgs("Ghana", "Accra", "Africa", int64(31072940), "GHS",
			10.5, 8.8e9, "https://flagcdn.com/gh.svg", now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	p := Payload{
		Name:          "Ghana",
		Capital:       strPtr("Accra"),
		Region:        strPtr("Africa"),
		Population:    31072940,
		CurrencyCode:  strPtr("GHS"),
		ExchangeRate:  f64Ptr(10.5),
		EstimatedGDP:  f64Ptr(8.8e9),
		FlagURL:       strPtr("https://flagcdn.com/gh.svg"),
		LastRefreshed: now,
	}
	if err := repo.UpsertByName(context.Background(), p); err != nil {
		t.Fatalf("UpsertByName error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestUpsertByName_UpdatePreservesIdentity(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id FROM countries WHERE LOWER(name) = LOWER(?) LIMIT 1`)).
		WithArgs("ghana").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	mock.ExpectExec("UPDATE countries").
		WithArgs("ghana", nil, nil, int64(31072940), nil, nil, nil, nil, now,
			uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := Payload{Name: "ghana", Population: 31072940, LastRefreshed: now}
	if err := repo.UpsertByName(context.Background(), p); err != nil {
		t.Fatalf("UpsertByName error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestList_FiltersAndSort(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`LOWER\(region\) = LOWER\(\?\) AND LOWER\(currency_code\) = LOWER\(\?\) ORDER BY estimated_gdp DESC`).
		WithArgs("Europe", "eur").
		WillReturnRows(countryRows().
			AddRow(1, "France", "Paris", "Europe", int64(67000000), "EUR",
				0.92, 1.2e11, nil, nil))

	got, err := repo.List(context.Background(), Filter{
		Region:   "Europe",
		Currency: "eur",
		Sort:     &Sort{Field: SortGDP, Desc: true},
	})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "France" {
		t.Fatalf("unexpected result: %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestList_NoSortMeansNoOrderBy(t *testing.T) {
	repo, mock := newMock(t)

	// The expectation is anchored on the end of the statement: any ORDER BY
	// would break the match.
	mock.ExpectQuery(`FROM countries$`).
		WillReturnRows(countryRows())

	if _, err := repo.List(context.Background(), Filter{}); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestFindByName_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`LOWER\(name\) = LOWER\(\?\)`).
		WithArgs("Atlantis").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByName(context.Background(), "Atlantis")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRemove(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM countries WHERE LOWER(name) = LOWER(?)`)).
		WithArgs("Ghana").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Remove(context.Background(), "Ghana"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM countries WHERE LOWER(name) = LOWER(?)`)).
		WithArgs("Atlantis").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Remove(context.Background(), "Atlantis"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStatus_EmptyTable(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS total, MAX\(last_refreshed_at\) AS last`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "last"}).AddRow(0, nil))

	st, err := repo.Status(context.Background())
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	if st.Total != 0 || st.LastRefreshed != nil {
		t.Fatalf("unexpected status: %+v", st)
	}
}

// countryRows returns an empty row set with the full column list.
func countryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "capital", "region", "population", "currency_code",
		"exchange_rate", "estimated_gdp", "flag_url", "last_refreshed_at",
	})
}
