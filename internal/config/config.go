package config

import (
	"fmt"
	"strings"
	"time"
)

type HTTPConfig struct {
	Addr string `koanf:"addr" validate:"required"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Token   string `koanf:"token"`
}

type DatabaseConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

type AuthConfig struct {
	// Secret verifies bearer tokens; empty disables token checks.
	Secret string `koanf:"secret"`
}

type LookupConfig struct {
	Source      string        `koanf:"source" validate:"oneof=static postgres remote hybrid"`
	Timeout     time.Duration `koanf:"timeout" validate:"gt=0"`
	NotFound    string        `koanf:"notfound" validate:"oneof=absent placeholder"`
	Concurrency int           `koanf:"concurrency" validate:"min=1,max=32"`
}

type RemoteConfig struct {
	BaseURL   string        `koanf:"baseurl" validate:"omitempty,url"`
	UserAgent string        `koanf:"useragent"`
	Timeout   time.Duration `koanf:"timeout"`
}

type RateLimitConfig struct {
	PerMinute int `koanf:"perminute" validate:"min=0"`
	Burst     int `koanf:"burst" validate:"min=0"`

	// TrustedProxies is a comma separated list of CIDRs whose
	// X-Forwarded-For is believed, typically the gateway's network.
	TrustedProxies string `koanf:"trustedproxies"`
}

type Catalog struct {
	HTTP      HTTPConfig      `koanf:"http"`
	Log       LogConfig       `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Lookup    LookupConfig    `koanf:"lookup"`
	Remote    RemoteConfig    `koanf:"remote"`
	DB        DatabaseConfig  `koanf:"db"`
	Seed      bool            `koanf:"seed"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
}

func CatalogDefaults() map[string]any {
	return map[string]any{
		"http.addr":           ":8082",
		"log.level":           "info",
		"metrics.enabled":     true,
		"lookup.source":       "static",
		"lookup.timeout":      "3s",
		"lookup.notfound":     "absent",
		"lookup.concurrency":  4,
		"remote.baseurl":      "https://www.gsmarena.com",
		"remote.timeout":      "5s",
		"db.timeout":          "5s",
		"seed":                true,
		"ratelimit.perminute": 120,
		"ratelimit.burst":     20,
	}
}

func (c *Catalog) Validate() error {
	switch c.Lookup.Source {
	case "postgres":
		return requirePostgresURL(c.DB.URL)
	case "remote", "hybrid":
		if c.Remote.BaseURL == "" {
			return fmt.Errorf("remote.baseurl is required for source %q", c.Lookup.Source)
		}
	}
	return nil
}

type StorageConfig struct {
	Backend string `koanf:"backend" validate:"oneof=memory redis postgres sqlite"`
}

type RedisConfig struct {
	URL    string `koanf:"url"`
	Prefix string `koanf:"prefix"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

type CompareConfig struct {
	Limit int `koanf:"limit" validate:"min=1,max=24"`
}

type CacheConfig struct {
	Owners int `koanf:"owners" validate:"min=1"`
}

type OwnerConfig struct {
	// TrustHeader accepts X-User-Id as set by the gateway.
	TrustHeader bool `koanf:"trustheader"`
}

type UpstreamConfig struct {
	URL     string        `koanf:"url" validate:"omitempty,url"`
	Timeout time.Duration `koanf:"timeout"`
}

type Selection struct {
	HTTP    HTTPConfig     `koanf:"http"`
	Log     LogConfig      `koanf:"log"`
	Metrics MetricsConfig  `koanf:"metrics"`
	Storage StorageConfig  `koanf:"storage"`
	Redis   RedisConfig    `koanf:"redis"`
	DB      DatabaseConfig `koanf:"db"`
	SQLite  SQLiteConfig   `koanf:"sqlite"`
	Compare CompareConfig  `koanf:"compare"`
	Cache   CacheConfig    `koanf:"cache"`
	Auth    AuthConfig     `koanf:"auth"`
	Owner   OwnerConfig    `koanf:"owner"`
	Catalog UpstreamConfig `koanf:"catalog"`
}

func SelectionDefaults() map[string]any {
	return map[string]any{
		"http.addr":       ":8083",
		"log.level":       "info",
		"metrics.enabled": true,
		"storage.backend": "memory",
		"redis.prefix":    "phonecompare:",
		"db.timeout":      "5s",
		"sqlite.path":     "selection.db",
		"compare.limit":   6,
		"cache.owners":    10000,
		"catalog.url":     "http://localhost:8082",
		"catalog.timeout": "3s",
	}
}

func (c *Selection) Validate() error {
	switch c.Storage.Backend {
	case "redis":
		if c.Redis.URL == "" {
			return fmt.Errorf("redis.url is required for the redis backend")
		}
	case "postgres":
		return requirePostgresURL(c.DB.URL)
	case "sqlite":
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is required for the sqlite backend")
		}
	}
	return nil
}

type Upstreams struct {
	Catalog   string `koanf:"catalog" validate:"required,url"`
	Selection string `koanf:"selection" validate:"required,url"`
}

type Gateway struct {
	HTTP      HTTPConfig    `koanf:"http"`
	Log       LogConfig     `koanf:"log"`
	Metrics   MetricsConfig `koanf:"metrics"`
	Auth      AuthConfig    `koanf:"auth"`
	Upstreams Upstreams     `koanf:"upstreams"`
}

func GatewayDefaults() map[string]any {
	return map[string]any{
		"http.addr":           ":8080",
		"log.level":           "info",
		"metrics.enabled":     true,
		"upstreams.catalog":   "http://localhost:8082",
		"upstreams.selection": "http://localhost:8083",
	}
}

func requirePostgresURL(url string) error {
	if url == "" {
		return fmt.Errorf("db.url is not configured")
	}
	if !strings.HasPrefix(url, "postgres://") && !strings.HasPrefix(url, "postgresql://") {
		return fmt.Errorf("db.url must start with 'postgres://'")
	}
	return nil
}

// MaskURL hides credentials in a connection URL for logging.
func MaskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	if i := strings.LastIndex(url, "@"); i >= 0 {
		return "****" + url[i:]
	}
	return url
}
