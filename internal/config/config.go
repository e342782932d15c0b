package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the portal.
type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Signup   SignupConfig
	Tokens   TokenStoreConfig
	Session  SessionConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// UpstreamConfig points at the remote signup service.
type UpstreamConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// SignupConfig tunes the submission handler.
type SignupConfig struct {
	RequireToken bool
}

// TokenStoreConfig selects where partner tokens are persisted.
type TokenStoreConfig struct {
	Backend    string
	TTLMinutes int
}

// SessionConfig controls the browser session cookie and idle cleanup.
type SessionConfig struct {
	CookieName           string
	CookieSecure         bool
	IdleTTLMinutes       int
	SweepIntervalSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token inspection parameters.
type AuthConfig struct {
	JWTSecret string
}

const (
	TokenBackendRedis  = "redis"
	TokenBackendMemory = "memory"
)

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := strings.ToLower(getEnv("TOKEN_STORE", TokenBackendRedis))
	if backend != TokenBackendRedis && backend != TokenBackendMemory {
		return nil, fmt.Errorf("invalid TOKEN_STORE %q: want %q or %q", backend, TokenBackendRedis, TokenBackendMemory)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "partner-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Upstream: UpstreamConfig{
			BaseURL:        strings.TrimRight(getEnv("UPSTREAM_BASE_URL", "http://127.0.0.1:8081"), "/"),
			TimeoutSeconds: getEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 0),
		},
		Signup: SignupConfig{
			RequireToken: getEnvAsBool("SIGNUP_REQUIRE_TOKEN", false),
		},
		Tokens: TokenStoreConfig{
			Backend:    backend,
			TTLMinutes: getEnvAsInt("TOKEN_TTL_MINUTES", 0),
		},
		Session: SessionConfig{
			CookieName:           getEnv("SESSION_COOKIE_NAME", "portal_sid"),
			CookieSecure:         getEnvAsBool("SESSION_COOKIE_SECURE", false),
			IdleTTLMinutes:       getEnvAsInt("SESSION_IDLE_TTL_MINUTES", 30),
			SweepIntervalSeconds: getEnvAsInt("SESSION_SWEEP_INTERVAL_SECONDS", 60),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	return seconds(a.RequestTimeoutSeconds)
}

// SignupURL returns the absolute URL of the remote signup endpoint.
func (u UpstreamConfig) SignupURL() string {
	return u.BaseURL + "/partner/signup"
}

// Timeout bounds a single upstream call. Zero means no timeout.
func (u UpstreamConfig) Timeout() time.Duration {
	return seconds(u.TimeoutSeconds)
}

// TTL returns how long a stored token lives. Zero keeps it forever.
func (t TokenStoreConfig) TTL() time.Duration {
	return minutes(t.TTLMinutes)
}

// IdleTTL returns how long an untouched signup session is kept in memory.
func (s SessionConfig) IdleTTL() time.Duration {
	return minutes(s.IdleTTLMinutes)
}

// SweepInterval returns the idle session sweep period.
func (s SessionConfig) SweepInterval() time.Duration {
	return seconds(s.SweepIntervalSeconds)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func minutes(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Minute
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
