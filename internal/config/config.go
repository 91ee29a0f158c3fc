package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Store        StoreConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Metrics      MetricsConfig
	Auth         AuthConfig
	Tickets      TicketsConfig
	Notification NotificationConfig
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

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver        string
	SQLitePath    string
	RunMigrations bool
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Enabled         bool
	Addr            string
	Password        string
	DB              int
	KanbanCacheTTLS int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Development bool
}

// MetricsConfig configures prometheus collectors.
type MetricsConfig struct {
	Namespace string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// TicketsConfig tunes ticket workflow behavior.
type TicketsConfig struct {
	StrictTransitions bool
	DefaultSender     string
}

// NotificationConfig holds event fan-out settings.
type NotificationConfig struct {
	EventsChannel    string
	PublishTimeoutMS int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "crmdesk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(os.Getenv("STORE_DRIVER")),
			SQLitePath:    getEnv("SQLITE_PATH", "./crmdesk.db"),
			RunMigrations: getEnvAsBool("STORE_RUN_MIGRATIONS", true),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Enabled:         getEnvAsBool("REDIS_ENABLED", true),
			Addr:            getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			KanbanCacheTTLS: getEnvAsInt("KANBAN_CACHE_TTL_SECONDS", 300),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Metrics: MetricsConfig{
			Namespace: getEnv("METRICS_NAMESPACE", "crmdesk"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Tickets: TicketsConfig{
			StrictTransitions: getEnvAsBool("TICKET_STRICT_TRANSITIONS", false),
			DefaultSender:     getEnv("MESSAGE_DEFAULT_SENDER", "Atendente"),
		},
		Notification: NotificationConfig{
			EventsChannel:    getEnv("NOTIFY_EVENTS_CHANNEL", "crm:events"),
			PublishTimeoutMS: getEnvAsInt("NOTIFY_PUBLISH_TIMEOUT_MS", 500),
		},
	}

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DriverSQLite
		if cfg.Postgres.DSN != "" {
			cfg.Store.Driver = DriverPostgres
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("STORE_DRIVER=postgres requires POSTGRES_DSN")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Store.SQLitePath) == "" {
			return fmt.Errorf("STORE_DRIVER=sqlite requires SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// KanbanCacheTTL returns how long kanban configs stay cached.
func (r RedisConfig) KanbanCacheTTL() time.Duration {
	if r.KanbanCacheTTLS <= 0 {
		return 0
	}
	return time.Duration(r.KanbanCacheTTLS) * time.Second
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
