// internal/config/model.go
//
// Typed configuration model for Atlas.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                         – dotenv values,
//   • optional `conf/global.yaml`             – primary static file,
//   • environment overrides                   – highest precedence.
//
// Environment overrides come in two flavours: `ATLAS_`-prefixed keys that
// map onto the tree (`ATLAS_HTTP__LISTEN_ADDR → http.listen_addr`), and the
// legacy Railway-style pairs the original deployment used
// (`MYSQLHOST`/`DB_HOST`, `PORT`, and friends).
//
// Any database password whose string begins with the prefix `vault:` is
// resolved through the Vault client *before* validation, so the model never
// stores Vault URIs, only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"` – Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
}

//
// Database section
//

// Database holds the MySQL connection parameters.  The password may be a
// `vault:secret/data/atlas#db_password` URI, resolved at load time.
type Database struct {
	Host     string `koanf:"host"     validate:"required"`
	Port     int    `koanf:"port"     validate:"required,min=1,max=65535"`
	User     string `koanf:"user"     validate:"required"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"     validate:"required"`
}

//
// Source section
//

// Source holds the two upstream endpoints the refresh cycle pulls from.
// Overridable so tests and air-gapped deployments can point at stand-ins.
type Source struct {
	CountriesURL string `koanf:"countries_url" validate:"required,url"`
	RatesURL     string `koanf:"rates_url"     validate:"required,url"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.  The loader
// discovers `Root` (repo root or ATLAS_ROOT override) so later code can
// build absolute file paths (logs, the summary image cache).
type Paths struct {
	Root string // ATLAS_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Source   Source   `koanf:"source"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
