package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App     AppConfig
	Log     LogConfig
	HTTP    HTTPConfig
	Backend BackendConfig
	Session SessionConfig
	Redis   RedisConfig
	Storage StorageConfig
	JWT     JWTConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds console HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxBodySize      int64
	CORSAllowOrigins []string
	TrustedProxies   []string
}

// BackendConfig describes the master-data REST backend the console talks to
type BackendConfig struct {
	Origin        string        // scheme + host, e.g. https://api.nbfc.example.com
	APIPrefix     string        // /api/v1
	LegacyPrefix  string        // /api/api/v1, used by the users module
	Timeout       time.Duration // 0 means no client-side timeout
	UploadTimeout time.Duration
	// GuarantorDeleteFallbacks enables the alternative delete request shapes
	// for guarantors. Off by default: only the primary DELETE is sent.
	GuarantorDeleteFallbacks bool
}

// BaseURL returns origin + API prefix without a trailing slash
func (b BackendConfig) BaseURL() string {
	return strings.TrimRight(b.Origin, "/") + "/" + strings.Trim(b.APIPrefix, "/")
}

// LegacyBaseURL returns origin + legacy prefix without a trailing slash
func (b BackendConfig) LegacyBaseURL() string {
	return strings.TrimRight(b.Origin, "/") + "/" + strings.Trim(b.LegacyPrefix, "/")
}

// SessionConfig holds operator session persistence settings
type SessionConfig struct {
	Store        string // memory, sqlite, redis
	SQLitePath   string
	KeyPrefix    string
	PollInterval time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// StorageConfig selects where uploaded documents go
type StorageConfig struct {
	Driver            string // backend, s3
	Endpoint          string
	Region            string
	Bucket            string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// JWTConfig holds console token settings
type JWTConfig struct {
	Secret                string
	AccessTokenExpiration time.Duration
	Issuer                string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with NBFC_ prefix (e.g., NBFC_BACKEND_ORIGIN)
// 2. .env file in the working directory
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/nbfc")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("NBFC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Backend: BackendConfig{
			Origin:                   v.GetString("backend.origin"),
			APIPrefix:                v.GetString("backend.api_prefix"),
			LegacyPrefix:             v.GetString("backend.legacy_prefix"),
			Timeout:                  v.GetDuration("backend.timeout"),
			UploadTimeout:            v.GetDuration("backend.upload_timeout"),
			GuarantorDeleteFallbacks: v.GetBool("backend.guarantor_delete_fallbacks"),
		},
		Session: SessionConfig{
			Store:        v.GetString("session.store"),
			SQLitePath:   v.GetString("session.sqlite_path"),
			KeyPrefix:    v.GetString("session.key_prefix"),
			PollInterval: v.GetDuration("session.poll_interval"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Storage: StorageConfig{
			Driver:            v.GetString("storage.driver"),
			Endpoint:          v.GetString("storage.endpoint"),
			Region:            v.GetString("storage.region"),
			Bucket:            v.GetString("storage.bucket"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			UseSSL:            v.GetBool("storage.use_ssl"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
		},
		JWT: JWTConfig{
			Secret:                v.GetString("jwt.secret"),
			AccessTokenExpiration: v.GetDuration("jwt.access_token_expiration"),
			Issuer:                v.GetString("jwt.issuer"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "nbfc-console"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 20 << 20 // 20MB, documents are scanned PDFs
	}
	if cfg.Backend.Origin == "" {
		cfg.Backend.Origin = "http://localhost:3000"
	}
	if cfg.Backend.APIPrefix == "" {
		cfg.Backend.APIPrefix = "/api/v1"
	}
	if cfg.Backend.LegacyPrefix == "" {
		cfg.Backend.LegacyPrefix = "/api/api/v1"
	}
	if cfg.Backend.UploadTimeout == 0 {
		cfg.Backend.UploadTimeout = 5 * time.Minute
	}
	if cfg.Session.Store == "" {
		cfg.Session.Store = "sqlite"
	}
	if cfg.Session.SQLitePath == "" {
		cfg.Session.SQLitePath = "nbfc-session.db"
	}
	if cfg.Session.KeyPrefix == "" {
		cfg.Session.KeyPrefix = "nbfc:"
	}
	if cfg.Session.PollInterval == 0 {
		cfg.Session.PollInterval = 30 * time.Second
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "backend"
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 15 * time.Minute
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 8 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "nbfc-console"
	}
	if cfg.JWT.Secret == "" && cfg.App.Env != "production" {
		cfg.JWT.Secret = "development-only-console-secret-change-me"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	u, err := url.Parse(c.Backend.Origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.origin must be an absolute URL, got %q", c.Backend.Origin)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout cannot be negative")
	}

	switch c.Session.Store {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("session.store must be one of memory, sqlite, redis, got %q", c.Session.Store)
	}
	if c.Session.PollInterval < time.Second {
		return fmt.Errorf("session.poll_interval must be at least 1s")
	}

	switch c.Storage.Driver {
	case "backend":
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("storage.driver must be backend or s3, got %q", c.Storage.Driver)
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if u.Scheme != "https" {
			return fmt.Errorf("backend.origin must use https in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}
