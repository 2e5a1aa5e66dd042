// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from overlay layers (highest
precedence last):

  1. Built-in defaults matching the original deployment (localhost MySQL,
     `countries_api` schema, port 3000, public upstream URLs).
  2. Optional `.env` file under `<root>/conf/.env`.
  3. Optional `conf/global.yaml`.
  4. Environment variables prefixed `ATLAS_`, where `__` maps to “.”
     (e.g., `ATLAS_HTTP__LISTEN_ADDR → http.listen_addr`).
  5. Legacy env pairs: `MYSQLHOST`/`DB_HOST`, `MYSQLPORT`/`DB_PORT`,
     `MYSQLUSER`/`DB_USERNAME`, `MYSQLPASSWORD`/`DB_PASSWORD`,
     `MYSQLDATABASE`/`DB_DATABASE`, and `PORT` for the listen address.

After merging, the tree is unmarshalled into strongly-typed structs, the
database password is resolved through Vault when it carries a `vault:`
prefix, the result is validated, enriched with the runtime root path, and
cached in an `atomic.Pointer` for lock-free reads.  `Reload()` simply calls
`Load()` again and swaps the pointer.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`; this
    lets `go run ./cmd/web` work from any sub-directory.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed (bootstrap console).
*/
package config

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/atlas/internal/vault"
)

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves ATLAS_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv("ATLAS_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves secrets, validates, and
// caches Config.
func Load() (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
			return nil, err
		}
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	}

	// Env overrides: ATLAS_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider("ATLAS_", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, "ATLAS_"), "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	applyLegacyEnv(cfg)

	if err := resolveSecrets(cfg); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	if err := validateStruct(cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"db_host", cfg.Database.Host,
		"db_name", cfg.Database.Name,
		"root", cfg.Paths.Root,
	)
	return cfg, nil
}

// defaults mirrors the original deployment's fallback values.
func defaults() *Config {
	return &Config{
		HTTP: HTTP{ListenAddr: ":3000"},
		Database: Database{
			Host: "localhost",
			Port: 3306,
			User: "root",
			Name: "countries_api",
		},
		Source: Source{
			CountriesURL: "https://restcountries.com/v2/all?fields=name,capital,region,population,flag,currencies",
			RatesURL:     "https://open.er-api.com/v6/latest/USD",
		},
	}
}

// applyLegacyEnv overlays the Railway-style pairs the original deployment
// read.  The MYSQL* name wins over its DB_* twin; either wins over YAML.
func applyLegacyEnv(cfg *Config) {
	if v := firstEnv("MYSQLHOST", "DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := firstEnv("MYSQLPORT", "DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = p
		}
	}
	if v := firstEnv("MYSQLUSER", "DB_USERNAME"); v != "" {
		cfg.Database.User = v
	}
	if v := firstEnv("MYSQLPASSWORD", "DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := firstEnv("MYSQLDATABASE", "DB_DATABASE"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.ListenAddr = ":" + v
	}
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

/*──────────────────────────── vault secrets ────────────────────────────────*/

// resolveSecrets replaces `vault:<path>#<key>` database passwords with the
// plain secret fetched from the Vault KV-v2 engine.
func resolveSecrets(cfg *Config) error {
	const prefix = "vault:"
	if !strings.HasPrefix(cfg.Database.Password, prefix) {
		return nil
	}

	ref := strings.TrimPrefix(cfg.Database.Password, prefix)
	path, key, ok := strings.Cut(ref, "#")
	if !ok {
		key = "password"
		path = ref
	}

	cli, err := vault.New(context.Background(), zap.S().Infof)
	if err != nil {
		return err
	}
	pw, err := cli.GetKV(context.Background(), path, key, 5*time.Minute)
	if err != nil {
		return err
	}
	cfg.Database.Password = pw
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config  { return current.Load() }
func Reload() error { _, err := Load(); return err }
