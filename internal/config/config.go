package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// placeholderCredential is the value the sample .env ships with; credentials
// still set to it disable the owning adapter exactly like absent ones.
const placeholderCredential = "your_client_id"

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Browser   BrowserConfig   `yaml:"browser"`
	Cache     CacheConfig     `yaml:"cache"`
	Sources   SourcesConfig   `yaml:"sources"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// ScrapeDeadline bounds one whole aggregation round as seen by the
	// HTTP caller.
	ScrapeDeadline time.Duration `yaml:"scrape_deadline"`
	// Constrained selects the browser-free adapter set used on hosts that
	// cannot run a headless browser.
	Constrained bool `yaml:"constrained"`
	Debug       bool `yaml:"debug"`
}

type BrowserConfig struct {
	// ExecutablePath points at a pre-installed browser binary; empty means
	// the automation library resolves its own.
	ExecutablePath string `yaml:"executable_path"`
	WindowWidth    int    `yaml:"window_width"`
	WindowHeight   int    `yaml:"window_height"`
}

type CacheConfig struct {
	TTL      time.Duration `yaml:"ttl"`
	Capacity int           `yaml:"capacity"`
	// RedisURL switches the result cache to a shared Redis backend when
	// set; empty keeps the in-process cache.
	RedisURL string `yaml:"redis_url"`
}

type SourcesConfig struct {
	InfoJobs Credentials `yaml:"infojobs"`
	LinkedIn Credentials `yaml:"linkedin"`
	Adzuna   Credentials `yaml:"adzuna"`
	// IncludeDiagnostics keeps synthetic system-notice records in
	// aggregation results so the UI can show a diagnostic card.
	IncludeDiagnostics bool `yaml:"include_diagnostics"`
	// EnableComputrabajo adds the Computrabajo scraper to the full
	// adapter set.
	EnableComputrabajo bool `yaml:"computrabajo"`
}

// Credentials is a client id/secret pair for an authenticated upstream.
type Credentials struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// Configured reports whether the pair is usable; placeholder values from the
// sample .env count as absent.
func (c Credentials) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.ClientID != placeholderCredential
}

type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
	MaxAge         int      `yaml:"max_age"`
}

// Load loads configuration from an optional YAML file, then applies
// environment overrides. A .env file is honored when present.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	cfg.loadFromEnv()

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           3001,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   60 * time.Second,
			ScrapeDeadline: 45 * time.Second,
		},
		Browser: BrowserConfig{
			WindowWidth:  1366,
			WindowHeight: 768,
		},
		Cache: CacheConfig{
			TTL:      15 * time.Minute,
			Capacity: 50,
		},
		Sources: SourcesConfig{
			IncludeDiagnostics: true,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 60,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"*"},
			MaxAge:         600,
		},
	}
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("DEPLOY_MODE"); v == "production" || v == "constrained" {
		c.Server.Constrained = true
	}
	if v := os.Getenv("DEBUG"); v == "true" {
		c.Server.Debug = true
	}

	if v := os.Getenv("BROWSER_EXECUTABLE_PATH"); v != "" {
		c.Browser.ExecutablePath = v
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Cache.RedisURL = v
	}

	if v := os.Getenv("INFOJOBS_CLIENT_ID"); v != "" {
		c.Sources.InfoJobs.ClientID = v
	}
	if v := os.Getenv("INFOJOBS_CLIENT_SECRET"); v != "" {
		c.Sources.InfoJobs.ClientSecret = v
	}
	if v := os.Getenv("LINKEDIN_CLIENT_ID"); v != "" {
		c.Sources.LinkedIn.ClientID = v
	}
	if v := os.Getenv("LINKEDIN_CLIENT_SECRET"); v != "" {
		c.Sources.LinkedIn.ClientSecret = v
	}
	if v := os.Getenv("ADZUNA_APP_ID"); v != "" {
		c.Sources.Adzuna.ClientID = v
	}
	if v := os.Getenv("ADZUNA_APP_KEY"); v != "" {
		c.Sources.Adzuna.ClientSecret = v
	}
	if v := os.Getenv("EXCLUDE_DIAGNOSTICS"); v == "true" {
		c.Sources.IncludeDiagnostics = false
	}
	if v := os.Getenv("ENABLE_COMPUTRABAJO"); v == "true" {
		c.Sources.EnableComputrabajo = true
	}
}
