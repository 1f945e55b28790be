package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete runtime configuration.
// Populated from defaults, then the config file, then FRA_ATLAS_* env vars,
// then CLI flags (highest priority).
type Config struct {
	Gateway     GatewayConfig     `yaml:"gateway" mapstructure:"gateway"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Database    DatabaseConfig    `yaml:"database" mapstructure:"database"`
	Uploads     UploadConfig      `yaml:"uploads" mapstructure:"uploads"`
	Geo         GeoConfig         `yaml:"geo" mapstructure:"geo"`
	Sync        SyncConfig        `yaml:"sync" mapstructure:"sync"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`

	// Endpoints appended to (or, on key collision, overriding) the built-in
	// endpoint registry.
	Endpoints []EndpointConfig `yaml:"endpoints,omitempty" mapstructure:"endpoints"`
}

// GatewayConfig describes the government open-data gateway
type GatewayConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// APIKey is never embedded in source or shipped defaults; it must come
	// from the config file or FRA_ATLAS_GATEWAY_API_KEY.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	Limit  int    `yaml:"limit" mapstructure:"limit"` // Rows requested per endpoint
}

// HTTPConfig controls the outbound HTTP client
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig controls the layered response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig bounds the worker pools
type ConcurrencyConfig struct {
	FetchWorkers int `yaml:"fetch_workers" mapstructure:"fetch_workers"` // Parallel endpoint fetches per run
	OCRWorkers   int `yaml:"ocr_workers" mapstructure:"ocr_workers"`     // Background document jobs
}

// RateLimitConfig covers both directions: polite fetching of the gateway and
// protection of our own API.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // Outbound, per gateway host
	Burst             int     `yaml:"burst" mapstructure:"burst"`
	ServerRequests    int     `yaml:"server_requests" mapstructure:"server_requests"` // Inbound, per client IP per window
	ServerWindow      int     `yaml:"server_window" mapstructure:"server_window"`     // Seconds
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Host        string   `yaml:"host" mapstructure:"host"`
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	// Tokens maps bearer token to role (admin, officer, community). Empty map
	// disables auth entirely, which is the demo-mode default.
	Tokens map[string]string `yaml:"tokens,omitempty" mapstructure:"tokens"`
	// RefreshInterval re-runs the aggregation pipeline in the background.
	// Zero disables periodic refresh; manual refresh stays available.
	RefreshInterval time.Duration `yaml:"refresh_interval" mapstructure:"refresh_interval"`
}

// DatabaseConfig selects the claims/documents datastore backend
type DatabaseConfig struct {
	SQLite   SQLiteConfig   `yaml:"sqlite" mapstructure:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres" mapstructure:"postgres"`
}

// SQLiteConfig is the default, zero-dependency backend
type SQLiteConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"` // File path, or ":memory:"
}

// PostgresConfig is the production backend
type PostgresConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`
	Database string `yaml:"database" mapstructure:"database"`
	SSLMode  string `yaml:"ssl_mode" mapstructure:"ssl_mode"`
}

// UploadConfig guards document uploads
type UploadConfig struct {
	Dir               string   `yaml:"dir" mapstructure:"dir"`
	MaxBytes          int64    `yaml:"max_bytes" mapstructure:"max_bytes"`
	AllowedExtensions []string `yaml:"allowed_extensions" mapstructure:"allowed_extensions"`
}

// GeoConfig covers boundary layers and coordinate synthesis
type GeoConfig struct {
	StateBoundariesPath    string  `yaml:"state_boundaries_path,omitempty" mapstructure:"state_boundaries_path"`
	DistrictBoundariesPath string  `yaml:"district_boundaries_path,omitempty" mapstructure:"district_boundaries_path"`
	JitterDegrees          float64 `yaml:"jitter_degrees" mapstructure:"jitter_degrees"`
	// Seed fixes the jitter RNG for reproducible layouts; 0 seeds from time.
	Seed int64 `yaml:"seed" mapstructure:"seed"`
	// SeedOverrides replaces the built-in anchor position for a state.
	SeedOverrides map[string]Coordinates `yaml:"seed_overrides,omitempty" mapstructure:"seed_overrides"`
}

// SyncConfig controls persisting aggregation runs into the datastore
type SyncConfig struct {
	States []string `yaml:"states" mapstructure:"states"` // States of interest for village-level sync
}

// LLMConfig configures the optional advisory provider.
// The advisory never affects rule scores or eligibility.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, or "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // Seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	// StrictSchemes rejects advisories that mention schemes outside the
	// evaluated recommendation set.
	StrictSchemes bool `yaml:"strict_schemes" mapstructure:"strict_schemes"`
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Format  string `yaml:"format" mapstructure:"format"` // table or json
}

// EndpointConfig declares or overrides a registry endpoint from config
type EndpointConfig struct {
	Key           string              `yaml:"key" mapstructure:"key"`
	Resource      string              `yaml:"resource" mapstructure:"resource"`
	Title         string              `yaml:"title" mapstructure:"title"`
	Source        string              `yaml:"source" mapstructure:"source"`
	Year          string              `yaml:"year,omitempty" mapstructure:"year"`
	AsOn          string              `yaml:"as_on,omitempty" mapstructure:"as_on"`
	Kind          string              `yaml:"kind" mapstructure:"kind"` // claims, approval, fire, rejected
	StateParam    string              `yaml:"state_param,omitempty" mapstructure:"state_param"`
	DistrictParam string              `yaml:"district_param,omitempty" mapstructure:"district_param"`
	ImplicitState string              `yaml:"implicit_state,omitempty" mapstructure:"implicit_state"`
	FieldMap      map[string][]string `yaml:"field_map,omitempty" mapstructure:"field_map"`
	Disabled      bool                `yaml:"disabled,omitempty" mapstructure:"disabled"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			BaseURL: "https://api.data.gov.in",
			Limit:   100,
		},
		HTTP: HTTPConfig{
			Timeout:      15 * time.Second,
			UserAgent:    "fra-atlas/0.3 (+https://github.com/openfra/fra-atlas)",
			MaxBodyBytes: 8_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 5 * time.Minute,
			DiskTTL:   6 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			FetchWorkers: 8,
			OCRWorkers:   2,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 5,
			Burst:             5,
			ServerRequests:    100,
			ServerWindow:      60,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Database: DatabaseConfig{
			SQLite: SQLiteConfig{
				Enabled: true,
				Path:    "fra-atlas.db",
			},
			Postgres: PostgresConfig{
				Host:    "localhost",
				Port:    5432,
				User:    "fra",
				SSLMode: "disable",
			},
		},
		Uploads: UploadConfig{
			Dir:      "uploads",
			MaxBytes: 50 * 1024 * 1024,
			AllowedExtensions: []string{
				".pdf", ".jpg", ".jpeg", ".png", ".tiff", ".tif", ".shp", ".geojson",
			},
		},
		Geo: GeoConfig{
			JitterDegrees: 0.75,
		},
		Sync: SyncConfig{
			States: []string{"Madhya Pradesh", "Tripura", "Odisha", "Telangana"},
		},
		LLM: LLMConfig{
			Timeout:       30,
			MaxTokens:     1000,
			StrictSchemes: true,
		},
		Output: OutputConfig{
			Format: "table",
		},
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fra-atlas-cache"
	}
	return filepath.Join(home, ".fra-atlas", "cache")
}
