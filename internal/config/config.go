package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const (
	// DevJWTSecret is only accepted outside production.
	DevJWTSecret = "dev-secret"

	EnvProduction = "production"

	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Store    StoreConfig    `yaml:"store"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Redis    RedisConfig    `yaml:"redis"`
	Logger   LoggerConfig   `yaml:"logger"`
	Auth     AuthConfig     `yaml:"auth"`
	LLM      LLMConfig      `yaml:"llm"`
	Stats    StatsConfig    `yaml:"stats"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `yaml:"name"`
	Env                   string `yaml:"env"`
	Host                  string `yaml:"host"`
	Port                  string `yaml:"port"`
	Version               string `yaml:"version"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

// StoreConfig selects the credential and conversation store.
type StoreConfig struct {
	Driver string `yaml:"driver"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	MaxConns       int32  `yaml:"max_conns"`
	MinConns       int32  `yaml:"min_conns"`
	RunMigrations  bool   `yaml:"run_migrations"`
	ConnMaxIdleSec int32  `yaml:"conn_max_idle_seconds"`
	ConnMaxLifeSec int32  `yaml:"conn_max_life_seconds"`
}

// SQLiteConfig holds the embedded database location.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `yaml:"level"`
}

// AuthConfig defines authentication parameters. JWTSecret is never logged.
type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	SessionTTLHours int    `yaml:"session_ttl_hours"`
	BcryptCost      int    `yaml:"bcrypt_cost"`
	SecureCookie    bool   `yaml:"-"`
}

// LLMConfig points at the hosted completion API.
type LLMConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// StatsConfig controls the dashboard statistics cache.
type StatsConfig struct {
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

// Default returns the built-in configuration before files and env vars are applied.
func Default() Config {
	return Config{
		App: AppConfig{
			Name:                  "chat-service",
			Env:                   "development",
			Host:                  "0.0.0.0",
			Port:                  "8080",
			Version:               "dev",
			RequestTimeoutSeconds: 120,
		},
		Store: StoreConfig{Driver: StoreDriverPostgres},
		Postgres: PostgresConfig{
			MaxConns:       10,
			MinConns:       2,
			RunMigrations:  true,
			ConnMaxIdleSec: 30,
			ConnMaxLifeSec: 300,
		},
		SQLite: SQLiteConfig{Path: "chat.db"},
		Redis:  RedisConfig{Addr: "127.0.0.1:6379"},
		Logger: LoggerConfig{Level: "info"},
		Auth: AuthConfig{
			JWTSecret:       DevJWTSecret,
			SessionTTLHours: 24 * 7,
			BcryptCost:      10,
		},
		LLM: LLMConfig{
			BaseURL:        "https://generativelanguage.googleapis.com",
			Model:          "gemini-pro",
			TimeoutSeconds: 90,
		},
		Stats: StatsConfig{CacheTTLSeconds: 30},
	}
}

// Load reads configuration from an optional YAML file named by CONFIG_FILE and then from
// environment variables, which take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", strconv.Itoa(cfg.Redis.DB)))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg.App = AppConfig{
		Name:                  getEnv("APP_NAME", cfg.App.Name),
		Env:                   getEnv("APP_ENV", cfg.App.Env),
		Host:                  getEnv("APP_HOST", cfg.App.Host),
		Port:                  getEnv("APP_PORT", cfg.App.Port),
		Version:               getEnv("APP_VERSION", cfg.App.Version),
		RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", cfg.App.RequestTimeoutSeconds),
	}
	cfg.Store.Driver = getEnv("STORE_DRIVER", cfg.Store.Driver)
	cfg.Postgres = PostgresConfig{
		DSN:            getEnv("POSTGRES_DSN", cfg.Postgres.DSN),
		MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", int(cfg.Postgres.MaxConns))),
		MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", int(cfg.Postgres.MinConns))),
		RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", cfg.Postgres.RunMigrations),
		ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", int(cfg.Postgres.ConnMaxIdleSec))),
		ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", int(cfg.Postgres.ConnMaxLifeSec))),
	}
	cfg.SQLite.Path = getEnv("SQLITE_PATH", cfg.SQLite.Path)
	cfg.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", cfg.Redis.Addr),
		Password: getEnv("REDIS_PASSWORD", cfg.Redis.Password),
		DB:       redisDB,
	}
	cfg.Logger.Level = getEnv("LOG_LEVEL", cfg.Logger.Level)
	cfg.Auth = AuthConfig{
		JWTSecret:       getEnv("AUTH_JWT_SECRET", cfg.Auth.JWTSecret),
		SessionTTLHours: getEnvAsInt("AUTH_SESSION_TTL_HOURS", cfg.Auth.SessionTTLHours),
		BcryptCost:      getEnvAsInt("AUTH_BCRYPT_COST", cfg.Auth.BcryptCost),
	}
	cfg.Auth.SecureCookie = cfg.App.IsProduction()
	cfg.LLM = LLMConfig{
		APIKey:         getEnv("LLM_API_KEY", cfg.LLM.APIKey),
		BaseURL:        getEnv("LLM_BASE_URL", cfg.LLM.BaseURL),
		Model:          getEnv("LLM_MODEL", cfg.LLM.Model),
		TimeoutSeconds: getEnvAsInt("LLM_TIMEOUT_SECONDS", cfg.LLM.TimeoutSeconds),
	}
	cfg.Stats.CacheTTLSeconds = getEnvAsInt("STATS_CACHE_TTL_SECONDS", cfg.Stats.CacheTTLSeconds)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the service must not start with.
func (c *Config) Validate() error {
	if c.App.IsProduction() && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DevJWTSecret) {
		return errors.New("AUTH_JWT_SECRET must be set in production")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET must not be empty")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("AUTH_BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverSQLite:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsProduction reports whether production-only safeguards apply.
func (a AppConfig) IsProduction() bool {
	return a.Env == EnvProduction
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SessionTTL returns the lifetime of issued session tokens.
func (a AuthConfig) SessionTTL() time.Duration {
	if a.SessionTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(a.SessionTTLHours) * time.Hour
}

// Timeout bounds a single completion request.
func (l LLMConfig) Timeout() time.Duration {
	if l.TimeoutSeconds <= 0 {
		return 90 * time.Second
	}
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long dashboard statistics stay cached.
func (s StatsConfig) CacheTTL() time.Duration {
	if s.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
