// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CountriesTracked = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "countries_tracked",
			Help: "Number of country records currently persisted.",
		})

	RefreshTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "refresh_cycles_total",
			Help: "Cumulative number of refresh cycles completed successfully.",
		})

	RefreshErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "refresh_cycle_errors_total",
			Help: "Cumulative number of refresh cycles that aborted with an error.",
		})

	RecordsUpsertedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "records_upserted_total",
			Help: "Cumulative number of country rows inserted or updated by refresh cycles.",
		})

	EnrichmentGapsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "enrichment_gaps_total",
			Help: "Cumulative number of records whose currency had no known exchange rate.",
		})
)

func init() {
	prometheus.MustRegister(
		CountriesTracked,
		RefreshTotal,
		RefreshErrorsTotal,
		RecordsUpsertedTotal,
		EnrichmentGapsTotal,
	)
}
