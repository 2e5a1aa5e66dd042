// cmd/web/main.go
//
// Atlas – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load configuration (defaults → .env → conf/global.yaml → env
//     overrides, Vault-resolved DB password).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Open the MySQL pool and ensure the countries table exists.
//
//  4. Wire the domain: ingestion client, repository, summary renderer, and
//     the refresh pipeline.
//
//  5. Mount the /countries routes plus the Prometheus /metrics endpoint
//     behind the recover, access-log, and security-header middleware.
//
//  6. Serve with hardened timeouts.
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/atlas/internal/config"
	"github.com/yanizio/atlas/internal/country"
	"github.com/yanizio/atlas/internal/database"
	"github.com/yanizio/atlas/internal/logger"
	"github.com/yanizio/atlas/internal/middleware"
	"github.com/yanizio/atlas/internal/refresh"
	"github.com/yanizio/atlas/internal/server"
	"github.com/yanizio/atlas/internal/source"
	"github.com/yanizio/atlas/internal/summary"
	"github.com/yanizio/atlas/internal/web"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer logOut.Sync()

	//
	// ── 1.  Database ────────────────────────────────────────────────────
	//
	dsn := database.DSN(cfg.Database.Host, cfg.Database.Port,
		cfg.Database.User, cfg.Database.Password, cfg.Database.Name)
	logOut.Infow("connecting to MySQL",
		"host", cfg.Database.Host, "db", cfg.Database.Name)
	db, err := database.Open(dsn)
	if err != nil {
		logOut.Fatalf("connect MySQL: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		logOut.Fatalf("ensure schema: %v", err)
	}
	logOut.Infow("database online")

	//
	// ── 2.  Domain wiring ───────────────────────────────────────────────
	//
	repo := country.New(db)
	client := source.NewClient(cfg.Source.CountriesURL, cfg.Source.RatesURL)
	renderer := summary.New(cfg.Paths.Root)
	refresher := refresh.New(client, repo, renderer, logOut)
	handler := web.NewHandler(repo, refresher, renderer.Path(), logOut)

	//
	// ── 3.  Router and middleware ───────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(middleware.Recover)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Security)
	r.Mount("/", handler.Routes())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	//
	// ── 4.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, r)
	logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
	if err := srv.ListenAndServe(); err != nil {
		logOut.Fatalf("http server: %v", err)
	}
}
