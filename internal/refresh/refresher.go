// internal/refresh/refresher.go
//
// The refresh cycle: ingestion → enrichment → persistence → summary render.
//
// Context
// -------
// One cycle pulls the countries catalog and the rate table concurrently,
// joins them, and applies per-record upserts sequentially.  Either fetch
// failing aborts the whole cycle before anything is written; an upsert
// failing aborts the remainder of the loop, leaving the prefix applied
// (fail-in-place, no transaction).  Concurrent triggers are collapsed
// through singleflight so racing clients share one cycle's outcome.
//
// Workflow
// --------
//  1. errgroup launches both fetches; Wait joins them.
//  2. Records with no name or no population are skipped and logged; junk
//     upstream rows must not poison the mirror.
//  3. Enrich derives rate and GDP; gaps are counted, not fatal.
//  4. Store.UpsertByName applies each payload in catalog order.
//  5. The summary image is re-rendered from final state as a side effect.
package refresh

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/atlas/internal/country"
	"github.com/yanizio/atlas/internal/metrics"
	"github.com/yanizio/atlas/internal/source"
)

// Fetcher is the ingestion adapter contract.
type Fetcher interface {
	FetchCountries(ctx context.Context) ([]source.RawCountry, error)
	FetchExchangeRates(ctx context.Context) (map[string]float64, error)
}

// Store is the slice of the persistence gateway a cycle needs.
type Store interface {
	UpsertByName(ctx context.Context, p country.Payload) error
	TopByGDP(ctx context.Context, n int) ([]country.Record, error)
	Status(ctx context.Context) (country.Status, error)
}

// Renderer consumes final state and writes the summary image.
type Renderer interface {
	Render(top []country.Record, total int64, last *time.Time) error
}

// Refresher runs refresh cycles.  The uniform and now seams exist so tests
// can pin the GDP multiplier and timestamps.
type Refresher struct {
	src    Fetcher
	store  Store
	render Renderer
	log    *zap.SugaredLogger

	uniform func() float64
	now     func() time.Time
	sfg     singleflight.Group
}

// New wires a production Refresher (math/rand multiplier, wall clock).
func New(src Fetcher, store Store, render Renderer, log *zap.SugaredLogger) *Refresher {
	return &Refresher{
		src:     src,
		store:   store,
		render:  render,
		log:     log,
		uniform: rand.Float64,
		now:     time.Now,
	}
}

// Run executes one refresh cycle and returns the number of records applied.
// Concurrent callers are collapsed onto a single in-flight cycle.
func (r *Refresher) Run(ctx context.Context) (int, error) {
	v, err, shared := r.sfg.Do("refresh", func() (any, error) {
		return r.cycle(ctx)
	})
	if shared {
		r.log.Debugw("refresh joined in-flight cycle")
	}
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (r *Refresher) cycle(ctx context.Context) (int, error) {
	start := r.now()

	var (
		raws  []source.RawCountry
		rates map[string]float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raws, err = r.src.FetchCountries(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rates, err = r.src.FetchExchangeRates(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.RefreshErrorsTotal.Inc()
		r.log.Errorw("refresh aborted: upstream fetch failed", "err", err)
		return 0, err
	}

	now := r.now()
	count := 0
	for _, raw := range raws {
		if raw.Name == "" || raw.Population == nil {
			r.log.Warnw("skipping malformed catalog record",
				"name", raw.Name, "has_population", raw.Population != nil)
			continue
		}

		p, gap := Enrich(raw, rates, now, r.uniform)
		if gap {
			metrics.EnrichmentGapsTotal.Inc()
			r.log.Infow("enrichment gap: currency has no rate",
				"name", p.Name, "currency", *p.CurrencyCode)
		}

		if err := r.store.UpsertByName(ctx, p); err != nil {
			metrics.RefreshErrorsTotal.Inc()
			r.log.Errorw("refresh aborted mid-cycle",
				"name", p.Name, "applied", count, "err", err)
			return count, err
		}
		count++
		metrics.RecordsUpsertedTotal.Inc()
	}

	if err := r.renderSummary(ctx); err != nil {
		metrics.RefreshErrorsTotal.Inc()
		return count, err
	}

	metrics.RefreshTotal.Inc()
	r.log.Infow("refresh cycle complete",
		"count", count,
		"catalog_size", len(raws),
		"elapsed", r.now().Sub(start).String(),
	)
	return count, nil
}

// renderSummary pulls final state and hands it to the image sink.
func (r *Refresher) renderSummary(ctx context.Context) error {
	top, err := r.store.TopByGDP(ctx, 5)
	if err != nil {
		return err
	}
	st, err := r.store.Status(ctx)
	if err != nil {
		return err
	}
	metrics.CountriesTracked.Set(float64(st.Total))
	return r.render.Render(top, st.Total, st.LastRefreshed)
}
