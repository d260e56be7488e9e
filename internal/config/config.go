// Package config loads recipebox settings. Precedence, lowest first:
// built-in defaults, the YAML file, .env, RECIPEBOX_* environment
// variables, then command-line flags (applied by cmd/recipebox).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config is given and it exists.
const DefaultFile = "recipebox.yaml"

// Config holds all recipebox configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Auth    AuthConfig    `yaml:"auth"`
	Catalog CatalogConfig `yaml:"catalog"`
	Cache   CacheConfig   `yaml:"cache"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the DummyJSON client.
type APIConfig struct {
	BaseURL   string   `yaml:"base_url"`
	Timeout   Duration `yaml:"timeout"`
	RateLimit float64  `yaml:"rate_limit"` // requests per second, 0 = unlimited
	Burst     int      `yaml:"burst"`
	// RecipesFile serves the catalog from a local /recipes dump instead of the API.
	RecipesFile string `yaml:"recipes_file"`
}

// AuthConfig configures the session gate.
type AuthConfig struct {
	Mode          string   `yaml:"mode"` // login | lookup
	RedirectDelay Duration `yaml:"redirect_delay"`
	ExpiresInMins int      `yaml:"expires_in_mins"`
}

// CatalogConfig configures the catalog screen.
type CatalogConfig struct {
	PageSize       int      `yaml:"page_size"`
	SearchDebounce Duration `yaml:"search_debounce"`
}

// CacheConfig configures the recipe list cache.
type CacheConfig struct {
	TTL Duration `yaml:"ttl"` // 0 disables
}

// StorageConfig selects the local key-value store.
type StorageConfig struct {
	Backend string `yaml:"backend"` // file | sqlite | memory
	Path    string `yaml:"path"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // off | normal | verbose
	File  string `yaml:"file"`  // "stderr" logs to the console
}

// Duration is a time.Duration that reads "300ms"-style strings from YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "https://dummyjson.com",
			Timeout:   Duration(15 * time.Second),
			RateLimit: 5,
			Burst:     5,
		},
		Auth: AuthConfig{
			Mode:          "login",
			RedirectDelay: Duration(time.Second),
		},
		Catalog: CatalogConfig{
			PageSize:       9,
			SearchDebounce: Duration(300 * time.Millisecond),
		},
		Cache: CacheConfig{
			TTL: Duration(5 * time.Minute),
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    defaultStoragePath("storage.json"),
		},
		Logging: LoggingConfig{
			Level: "normal",
			File:  filepath.Join(".recipebox-logs", "recipebox.log"),
		},
	}
}

// Load builds the configuration. path may be empty, in which case
// DefaultFile is used if present. A missing explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// Env variable names.
const (
	EnvAPIURL         = "RECIPEBOX_API_URL"
	EnvRecipesFile    = "RECIPEBOX_RECIPES_FILE"
	EnvAuthMode       = "RECIPEBOX_AUTH_MODE"
	EnvPageSize       = "RECIPEBOX_PAGE_SIZE"
	EnvSearchDebounce = "RECIPEBOX_SEARCH_DEBOUNCE"
	EnvCacheTTL       = "RECIPEBOX_CACHE_TTL"
	EnvStorage        = "RECIPEBOX_STORAGE"
	EnvStoragePath    = "RECIPEBOX_STORAGE_PATH"
	EnvLogLevel       = "RECIPEBOX_LOG_LEVEL"
	EnvLogFile        = "RECIPEBOX_LOG_FILE"
)

func (c *Config) applyEnv() error {
	setString(&c.API.BaseURL, EnvAPIURL)
	setString(&c.API.RecipesFile, EnvRecipesFile)
	setString(&c.Auth.Mode, EnvAuthMode)
	setString(&c.Storage.Backend, EnvStorage)
	setString(&c.Storage.Path, EnvStoragePath)
	setString(&c.Logging.Level, EnvLogLevel)
	setString(&c.Logging.File, EnvLogFile)

	if v := os.Getenv(EnvPageSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvPageSize, err)
		}
		c.Catalog.PageSize = n
	}
	if err := setDuration(&c.Catalog.SearchDebounce, EnvSearchDebounce); err != nil {
		return err
	}
	return setDuration(&c.Cache.TTL, EnvCacheTTL)
}

// Validate rejects settings the program cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if c.Catalog.PageSize <= 0 {
		problems = append(problems, fmt.Sprintf("catalog.page_size must be positive, got %d", c.Catalog.PageSize))
	}
	if c.Catalog.SearchDebounce < 0 {
		problems = append(problems, "catalog.search_debounce must not be negative")
	}
	switch c.Auth.Mode {
	case "login", "lookup":
	default:
		problems = append(problems, fmt.Sprintf("auth.mode must be login or lookup, got %q", c.Auth.Mode))
	}
	switch c.Storage.Backend {
	case "file", "sqlite":
		if c.Storage.Path == "" {
			problems = append(problems, "storage.path is required for the "+c.Storage.Backend+" backend")
		}
	case "memory":
	default:
		problems = append(problems, fmt.Sprintf("storage.backend must be file, sqlite or memory, got %q", c.Storage.Backend))
	}
	if c.API.BaseURL == "" && c.API.RecipesFile == "" {
		problems = append(problems, "api.base_url is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = Duration(d)
	return nil
}

// defaultStoragePath puts local state under the user config dir, falling
// back to the working directory.
func defaultStoragePath(name string) string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "recipebox", name)
	}
	return filepath.Join(".recipebox", name)
}
