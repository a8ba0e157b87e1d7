package config

import "time"

type Config struct {
	Server struct {
		Port               int           `yaml:"port"`
		ReadTimeoutStr     string        `yaml:"read_timeout"`
		WriteTimeoutStr    string        `yaml:"write_timeout"`
		IdleTimeoutStr     string        `yaml:"idle_timeout"`
		ShutdownTimeoutStr string        `yaml:"shutdown_timeout"`
		ReadTimeout        time.Duration `yaml:"-"`
		WriteTimeout       time.Duration `yaml:"-"`
		IdleTimeout        time.Duration `yaml:"-"`
		ShutdownTimeout    time.Duration `yaml:"-"`
	} `yaml:"server"`

	// Mode is the data mode at startup: live or test.
	Mode string `yaml:"mode"`

	Listing struct {
		URL           string            `yaml:"url"`
		APIKey        string            `yaml:"api_key"`
		APIKeyHeader  string            `yaml:"api_key_header"`
		QuoteCurrency string            `yaml:"quote_currency"`
		Headers       map[string]string `yaml:"headers"`
		TimeoutStr    string            `yaml:"timeout"`
		Timeout       time.Duration     `yaml:"-"`
	} `yaml:"listing"`

	Sites []SiteConfig `yaml:"sites"`

	Views struct {
		TTLStr   string        `yaml:"ttl"`
		MaxViews int           `yaml:"max_views"`
		TTL      time.Duration `yaml:"-"`
	} `yaml:"views"`

	Refresh struct {
		CooldownStr string        `yaml:"cooldown"`
		Cooldown    time.Duration `yaml:"-"`
	} `yaml:"refresh"`

	TestGenerator struct {
		Seed int64 `yaml:"seed"`
	} `yaml:"test_generator"`

	Journal struct {
		Driver     string `yaml:"driver"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"journal"`

	PostgreSQL struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"postgresql"`

	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

type SiteConfig struct {
	Slug     string `yaml:"slug"`
	Title    string `yaml:"title"`
	Theme    string `yaml:"theme"`
	PageSize int    `yaml:"page_size"`
	Paginate bool   `yaml:"paginate"`
}
