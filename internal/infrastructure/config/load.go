package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"coinlisting/internal/domain/model"
)

const (
	defaultPort            = 8080
	defaultAPIKeyHeader    = "X-CMC_PRO_API_KEY"
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 30 * time.Second
	defaultViewTTL         = 15 * time.Minute
	defaultMaxViews        = 1024
	defaultRefreshCooldown = 2 * time.Second
)

// Load reads the YAML file at path, applies an optional .env and the
// environment on top, parses durations and validates the result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Mode == "" {
		cfg.Mode = model.LiveMode.String()
	}
	if cfg.Listing.APIKeyHeader == "" {
		cfg.Listing.APIKeyHeader = defaultAPIKeyHeader
	}
	if cfg.Views.MaxViews == 0 {
		cfg.Views.MaxViews = defaultMaxViews
	}
	if cfg.Journal.Driver == "" {
		cfg.Journal.Driver = "none"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.PostgreSQL.SSLMode == "" {
		cfg.PostgreSQL.SSLMode = "disable"
	}
}

func (c *Config) parseDurations() error {
	fields := []struct {
		name string
		raw  string
		def  time.Duration
		dst  *time.Duration
	}{
		{"server.read_timeout", c.Server.ReadTimeoutStr, defaultReadTimeout, &c.Server.ReadTimeout},
		{"server.write_timeout", c.Server.WriteTimeoutStr, defaultWriteTimeout, &c.Server.WriteTimeout},
		{"server.idle_timeout", c.Server.IdleTimeoutStr, defaultIdleTimeout, &c.Server.IdleTimeout},
		{"server.shutdown_timeout", c.Server.ShutdownTimeoutStr, defaultShutdownTimeout, &c.Server.ShutdownTimeout},
		{"listing.timeout", c.Listing.TimeoutStr, 0, &c.Listing.Timeout},
		{"views.ttl", c.Views.TTLStr, defaultViewTTL, &c.Views.TTL},
		{"refresh.cooldown", c.Refresh.CooldownStr, defaultRefreshCooldown, &c.Refresh.Cooldown},
	}

	for _, f := range fields {
		if f.raw == "" {
			*f.dst = f.def
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid %s: negative duration", f.name)
		}
		*f.dst = d
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	// Listing endpoint
	if v := os.Getenv("LISTING_URL"); v != "" {
		cfg.Listing.URL = v
	}
	if v := os.Getenv("LISTING_API_KEY"); v != "" {
		cfg.Listing.APIKey = v
	}
	if v := os.Getenv("DATA_MODE"); v != "" {
		cfg.Mode = v
	}

	// PostgreSQL
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		cfg.PostgreSQL.Host = v
	}
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.PostgreSQL.Port = port
		}
	}
	if v := os.Getenv("POSTGRES_USER"); v != "" {
		cfg.PostgreSQL.User = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		cfg.PostgreSQL.Password = v
	}
	if v := os.Getenv("POSTGRES_DB"); v != "" {
		cfg.PostgreSQL.Database = v
	}

	// Redis
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Redis.Enabled = enabled
		}
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Redis.Port = port
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}

	if v := os.Getenv("JOURNAL_DRIVER"); v != "" {
		cfg.Journal.Driver = v
	}

	// Server
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	mode, err := model.ParseDataMode(c.Mode)
	if err != nil {
		errs = append(errs, err)
	}
	if mode == model.LiveMode && c.Listing.URL == "" {
		errs = append(errs, errors.New("listing.url is required in live mode"))
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}

	if len(c.Sites) == 0 {
		errs = append(errs, errors.New("at least one site is required"))
	}
	seen := make(map[string]bool, len(c.Sites))
	for i, s := range c.Sites {
		if s.Slug == "" {
			errs = append(errs, fmt.Errorf("sites[%d]: slug is required", i))
		} else if seen[s.Slug] {
			errs = append(errs, fmt.Errorf("sites[%d]: duplicate slug %q", i, s.Slug))
		}
		seen[s.Slug] = true
		if _, err := model.ParseTheme(s.Theme); err != nil {
			errs = append(errs, fmt.Errorf("sites[%d]: %w", i, err))
		}
		if s.PageSize < 0 || (s.Paginate && s.PageSize == 0) {
			errs = append(errs, fmt.Errorf("sites[%d]: page_size must be positive", i))
		}
	}

	switch c.Journal.Driver {
	case "none", "postgres":
	case "sqlite":
		if c.Journal.SQLitePath == "" {
			errs = append(errs, errors.New("journal.sqlite_path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown journal driver %q", c.Journal.Driver))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

func (c *Config) DataMode() model.DataMode {
	mode, _ := model.ParseDataMode(c.Mode)
	return mode
}

// SiteList converts the configured sites in file order.
func (c *Config) SiteList() []model.Site {
	sites := make([]model.Site, 0, len(c.Sites))
	for _, s := range c.Sites {
		title := s.Title
		if title == "" {
			title = s.Slug
		}
		sites = append(sites, model.Site{
			Slug:     s.Slug,
			Title:    title,
			Theme:    model.Theme(s.Theme),
			PageSize: s.PageSize,
			Paginate: s.Paginate,
		})
	}
	return sites
}

// ListingHeaders returns the request headers for the listings endpoint,
// including the API key when one is set.
func (c *Config) ListingHeaders() map[string]string {
	headers := make(map[string]string, len(c.Listing.Headers)+1)
	for k, v := range c.Listing.Headers {
		headers[k] = v
	}
	if c.Listing.APIKey != "" {
		headers[c.Listing.APIKeyHeader] = c.Listing.APIKey
	}
	return headers
}

func (c *Config) JournalDSN() string {
	if c.Journal.Driver == "sqlite" {
		return c.Journal.SQLitePath
	}
	return c.PostgresDSN()
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host, c.PostgreSQL.Port, c.PostgreSQL.User,
		c.PostgreSQL.Password, c.PostgreSQL.Database, c.PostgreSQL.SSLMode,
	)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
