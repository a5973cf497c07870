package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Redis     RedisConfig     `yaml:"redis"`
	Suggest   SuggestConfig   `yaml:"suggest"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig selects the store. Driver "postgres" uses the connection
// fields; driver "sqlite" uses Path.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
	BcryptCost    int    `yaml:"bcrypt_cost"`
	Pepper        string `yaml:"pepper"`
}

// RedisConfig is optional. An empty Addr keeps token revocation in memory.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SuggestConfig configures the remote suggestion service. An empty APIKey
// leaves suggestions to the built-in rules.
type SuggestConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var defaultCORSOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// TokenTTL returns the JWT lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// Timeout returns the remote call budget.
func (s SuggestConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix FITLOG_ and underscore-separated paths:
//
//	FITLOG_SERVER_HOST, FITLOG_SERVER_PORT, FITLOG_CORS_ORIGINS,
//	FITLOG_DB_DRIVER, FITLOG_DB_HOST, FITLOG_DB_PORT, FITLOG_DB_NAME,
//	FITLOG_DB_USER, FITLOG_DB_PASSWORD, FITLOG_DB_SSLMODE, FITLOG_DB_PATH,
//	FITLOG_JWT_SECRET, FITLOG_TOKEN_TTL_HOURS,
//	FITLOG_REDIS_ADDR, FITLOG_REDIS_PASSWORD, FITLOG_REDIS_DB
//
// The suggestion service also reads XAI_API_KEY, XAI_BASE_URL and XAI_MODEL.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// LoadSuggest reads only the suggest section. A missing file is not an error
// and the server, database and auth sections are not validated, so the remote
// model can be checked with nothing but XAI_* variables set.
func LoadSuggest(path string) (*SuggestConfig, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	return &cfg.Suggest, nil
}

func applyEnvOverrides(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString(&cfg.Server.Host, "FITLOG_SERVER_HOST")
	setInt(&cfg.Server.Port, "FITLOG_SERVER_PORT")
	if v := os.Getenv("FITLOG_CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}

	setString(&cfg.Database.Driver, "FITLOG_DB_DRIVER")
	setString(&cfg.Database.Host, "FITLOG_DB_HOST")
	setInt(&cfg.Database.Port, "FITLOG_DB_PORT")
	setString(&cfg.Database.Name, "FITLOG_DB_NAME")
	setString(&cfg.Database.User, "FITLOG_DB_USER")
	setString(&cfg.Database.Password, "FITLOG_DB_PASSWORD")
	setString(&cfg.Database.SSLMode, "FITLOG_DB_SSLMODE")
	setString(&cfg.Database.Path, "FITLOG_DB_PATH")

	setString(&cfg.Auth.JWTSecret, "FITLOG_JWT_SECRET")
	setInt(&cfg.Auth.TokenTTLHours, "FITLOG_TOKEN_TTL_HOURS")

	setString(&cfg.Redis.Addr, "FITLOG_REDIS_ADDR")
	setString(&cfg.Redis.Password, "FITLOG_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "FITLOG_REDIS_DB")

	setString(&cfg.Suggest.APIKey, "XAI_API_KEY")
	setString(&cfg.Suggest.BaseURL, "XAI_BASE_URL")
	setString(&cfg.Suggest.Model, "XAI_MODEL")
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = append([]string(nil), defaultCORSOrigins...)
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.Driver == DriverSQLite && c.Database.Path == "" {
		c.Database.Path = "data/fitlog.db"
	}
	if c.Auth.TokenTTLHours == 0 {
		c.Auth.TokenTTLHours = 24
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 12
	}
	if c.Suggest.TimeoutSeconds == 0 {
		c.Suggest.TimeoutSeconds = 20
	}
	if c.Tailscale.Hostname == "" {
		c.Tailscale.Hostname = "fitlog"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTLHours < 0 {
		return fmt.Errorf("auth.token_ttl_hours must be positive")
	}
	if c.Auth.BcryptCost < 10 || c.Auth.BcryptCost > 14 {
		return fmt.Errorf("auth.bcrypt_cost must be between 10 and 14")
	}
	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	default:
		return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
